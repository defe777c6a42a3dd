package viewmodels

type OrderRow struct {
	ID         int64
	ClientName string
	Status     string
	Total      string
	Created    string
}

type OrdersViewData struct {
	Orders []OrderRow
}
