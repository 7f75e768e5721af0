// Command gf2field is the optional printer collaborator of spec.md
// section 6: it accepts (m, g) as decimal integers and prints the
// resulting field's multiplication and inverse tables for diagnostics. It
// does not participate in the correctness of the core and is never
// imported by pkg/gf2, pkg/matrix, pkg/reedsolomon or pkg/harness.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli"

	"github.com/shermanyin/erasure-code/pkg/gf2"
)

func main() {
	app := cli.NewApp()
	app.Name = "gf2field"
	app.Usage = "print the multiplication and inverse tables of GF(2^m)"
	app.UsageText = "gf2field m g"
	app.ArgsUsage = "m g"
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.NewExitError("requires exactly 2 positional arguments: m g", 1)
	}

	m, err := strconv.ParseUint(c.Args().Get(0), 10, 64)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("invalid m: %q", c.Args().Get(0)), 1)
	}
	g, err := strconv.ParseUint(c.Args().Get(1), 10, 64)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("invalid g: %q", c.Args().Get(1)), 1)
	}

	field, err := gf2.New(uint(m), uint(g))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("initializing field: %v", err), 1)
	}

	printMulTable(field)
	fmt.Println()
	printInvTable(field)
	return nil
}

func printMulTable(f *gf2.Field) {
	q := f.Order()
	fmt.Printf("Multiplication table for GF(2^%d)\n\n", f.Degree())
	fmt.Print("     ")
	for i := 0; i < q; i++ {
		fmt.Printf("%02x ", i)
	}
	fmt.Println()
	for i := 0; i < q; i++ {
		fmt.Printf("%02x | ", i)
		for j := 0; j < q; j++ {
			fmt.Printf("%02x ", f.Mul(byte(i), byte(j)))
		}
		fmt.Println()
	}
}

func printInvTable(f *gf2.Field) {
	q := f.Order()
	fmt.Printf("Multiplicative inverse table for GF(2^%d)\n\n", f.Degree())
	for i := 1; i < q; i++ {
		fmt.Printf("%02x : %02x\n", i, f.MulInv(byte(i)))
	}
}
