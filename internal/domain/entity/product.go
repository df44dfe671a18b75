package entity

// Product representa un producto del catálogo. Es dato de referencia: el motor de
// inventario solo lo lee (el alta se hace con cmd/seed o directamente en la BD).
type Product struct {
	ID    int64
	Name  string
	Price int64 // precio unitario en la unidad monetaria mínima
}
