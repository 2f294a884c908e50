// Command planu manages the records of an auto repair workshop.
package main

import "github.com/mesh-intelligence/planu/internal/cli"

func main() {
	cli.Execute()
}
