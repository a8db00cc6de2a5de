package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core/course"
)

func (cli *commandLine) validateCourse(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var doc course.Document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return errors.Wrap(err, "decoding course document")
	}
	c, err := course.Hydrate(&doc)
	if err != nil {
		return err
	}
	payload, err := course.Validate(c)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "course %q is valid: %s, %d content item(s)\n", payload.Title, payload.Type, len(payload.Content))
	return nil
}
