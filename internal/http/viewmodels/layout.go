// Package viewmodels holds the data passed from handlers to views; views
// never reach back into the store.
package viewmodels

type LayoutData struct {
	Title      string
	UserEmail  string
	UserName   string
	UserRole   string
	IsAdmin    bool
	ActivePath string
	CSRFToken  string
}
