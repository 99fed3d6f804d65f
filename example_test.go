package distmat_test

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/hupe1980/distmat"
)

func ExampleCityBlock() {
	// Two rows of two features each, compared with themselves.
	x := []float64{
		0, 0,
		1, 1,
	}
	out := make([]float64, 2*2)

	if err := distmat.CityBlock(x, x, out, 2, 2); err != nil {
		log.Fatal(err)
	}

	fmt.Println(out)
	// Output: [0 2 2 0]
}

func ExampleCityBlockMatrix() {
	a, err := distmat.NewMatrix(1, 3, []float64{1, 2, 3})
	if err != nil {
		log.Fatal(err)
	}
	b, err := distmat.NewMatrix(2, 3, []float64{4, 5, 6, 1, 2, 4})
	if err != nil {
		log.Fatal(err)
	}

	d, err := distmat.CityBlockMatrix(context.Background(), a, b)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%dx%d %v\n", d.Rows, d.Cols, d.Data)
	// Output: 1x2 [9 1]
}

func ExampleShapeError() {
	out := make([]float64, 3)
	err := distmat.CityBlock(make([]float64, 4), make([]float64, 4), out, 2, 2)

	var se *distmat.ShapeError
	if errors.As(err, &se) {
		fmt.Println(se.Field, se.Got, se.Want)
	}
	fmt.Println(errors.Is(err, distmat.ErrInvalidArgument))
	// Output:
	// len(out) 3 4
	// true
}
