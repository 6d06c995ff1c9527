package main

import "linepay_backend/internal/app"

func main() {
	app.Run()
}
