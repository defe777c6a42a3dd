package viewmodels

type DashboardOrderRow struct {
	ID         int64
	ClientName string
	Status     string
	Total      string
}

type DashboardViewData struct {
	RecentOrders []DashboardOrderRow
	MenuCount    int
}
