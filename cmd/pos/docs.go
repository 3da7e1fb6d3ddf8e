package main

// @title Retail POS API
// @version 1.0
// @description Point of sale and inventory service for a footwear and accessories shop

// @contact.name API Support
// @contact.url http://github.com/tair/retail-pos
// @contact.email support@example.com

// @license.name MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Auth
// @tag.description Registration, login and the signed in account

// @tag.name Products
// @tag.description Product catalog and stock management

// @tag.name Sales
// @tag.description Sale recording and sales history

// @tag.name Dashboard
// @tag.description Daily metrics, recent sales and stock alerts

// @tag.name Health
// @tag.description Health check endpoints
