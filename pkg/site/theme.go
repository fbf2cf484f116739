package site

import "sync"

// Theme is a color scheme
type Theme string

// Supported themes
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme applies when neither a saved preference nor a system signal is available
const DefaultTheme = ThemeDark

// ParseTheme validates a theme name
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), true
	}
	return "", false
}

// ThemeStore holds the active theme and whether it was chosen explicitly
type ThemeStore struct {
	mu        sync.RWMutex
	current   Theme
	persisted bool
}

// NewThemeStore resolves the initial theme: saved preference, then system preference, then DefaultTheme
func NewThemeStore(saved, system string) *ThemeStore {
	if t, ok := ParseTheme(saved); ok {
		return &ThemeStore{current: t, persisted: true}
	}
	if t, ok := ParseTheme(system); ok {
		return &ThemeStore{current: t}
	}
	return &ThemeStore{current: DefaultTheme}
}

// Current returns the active theme
func (s *ThemeStore) Current() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Persisted reports whether the active theme is an explicit user choice
func (s *ThemeStore) Persisted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persisted
}

// Set switches the theme; persist records it as the user's choice
func (s *ThemeStore) Set(t Theme, persist bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = t
	s.persisted = persist
}

// Toggle flips between light and dark and persists the result
func (s *ThemeStore) Toggle() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == ThemeDark {
		s.current = ThemeLight
	} else {
		s.current = ThemeDark
	}
	s.persisted = true
	return s.current
}

// FollowSystem drops the saved choice and adopts the system preference
func (s *ThemeStore) FollowSystem(system string) Theme {
	t, ok := ParseTheme(system)
	if !ok {
		t = DefaultTheme
	}
	s.Set(t, false)
	return t
}

// SystemChanged applies a new system preference unless the user chose a theme explicitly
func (s *ThemeStore) SystemChanged(system string) Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := ParseTheme(system); ok && !s.persisted {
		s.current = t
	}
	return s.current
}
