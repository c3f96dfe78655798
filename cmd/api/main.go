package main

// @title           Storefront Back Office API
// @version         1.0
// @description     Orders, invoicing, payment reconciliation and coupons for a small retail business.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	Execute()
}
