package cache

const (
	KeyProducts           = "products:"
	KeyCheckoutAuthorized = "checkout:authorized:"
)
