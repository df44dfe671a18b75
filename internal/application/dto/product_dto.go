package dto

// ProductResponse salida de un producto del catálogo.
type ProductResponse struct {
	ID          int64  `json:"id"`
	Price       int64  `json:"price"`
	ProductName string `json:"product_name"`
}

// StockResponse posición de stock derivada de un producto.
type StockResponse struct {
	ProductID int64 `json:"product_id"`
	Stock     int64 `json:"stock"`
}
