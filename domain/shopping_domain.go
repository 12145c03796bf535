package domain

const (
	ShoppingCartFileName = "shopping_cart.txt"
	ShoppingDateLayout   = "02.01.2006"
)

type (
	// ShoppingItem is the summed amount of one (name, unit) group.
	ShoppingItem struct {
		Name            string
		MeasurementUnit string
		Amount          int64
	}

	ShoppingReport struct {
		FileName string
		Content  string
	}
)
