package sentiprep_test

import (
	"fmt"
	"log"
	"strings"

	"github.com/hejijunhao/sentiprep/pkg/sentiprep"
)

func Example() {
	p, err := sentiprep.New(sentiprep.WithMinDF(2))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(p.Clean("I love this!! 😊 #brand @company http://x.co"))

	ds, err := p.Prepare(reviewDocs())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(strings.Join(ds.Terms, ", "))
	fmt.Printf("train=%d test=%d\n", len(ds.Train()), len(ds.Test()))
	// Output:
	// love
	// battery, coffee, hour, morning, phone, phone battery
	// train=8 test=2
}
