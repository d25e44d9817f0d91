// cmd/main.go
package main

import (
	"training-hub-api/app"
)

func main() {
	app.Run()
}
