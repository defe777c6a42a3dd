package viewmodels

type MenuItemRow struct {
	ID        int64
	Name      string
	Price     string
	Available bool
}

type MenuViewData struct {
	Items []MenuItemRow
}
