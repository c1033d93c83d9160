package enum

// CustomerCategory distinguishes buyers from suppliers. Both live in the
// customers table; purchases reference supplier-category records.
type CustomerCategory string

const (
	CustomerCategoryCustomer CustomerCategory = "customer"
	CustomerCategorySupplier CustomerCategory = "supplier"
)

// IsValid reports whether c is a known category.
func (c CustomerCategory) IsValid() bool {
	return c == CustomerCategoryCustomer || c == CustomerCategorySupplier
}
