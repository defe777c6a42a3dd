package viewmodels

type SettingsUserRow struct {
	ID        int64
	Email     string
	Name      string
	Role      string
	Active    bool
	LastLogin string
}

type SettingsUsersViewData struct {
	Users []SettingsUserRow
}
