// Package sentiprep turns labeled social-media posts into a TF-IDF feature
// matrix with a stratified train/test split.
//
// Quick start:
//
//	p, err := sentiprep.New(sentiprep.WithMinDF(2))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ds, err := p.Prepare(docs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(ds.Terms), len(ds.Train()), len(ds.Test()))
//
// A Preprocessor is immutable once built and safe for concurrent use.
package sentiprep
