package viewmodels

type LoginViewData struct {
	Email        string
	Next         string
	ErrorMessage string

	// SetupRequired is true while no account exists yet; the page points
	// at the bootstrap CLI instead of pretending a login could work.
	SetupRequired bool
}
