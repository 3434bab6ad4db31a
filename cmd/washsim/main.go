// Washsim is the command-line interface of the car wash simulator.
package main

func main() {
	Execute()
}
