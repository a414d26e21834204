// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/staranto/stargazers/internal/attrs"
	"github.com/staranto/stargazers/internal/jsonio"
	"github.com/staranto/stargazers/internal/output"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if s, ok := value.(string); ok && strings.HasPrefix(s, "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func OutputValidator(value any) error {
	if !slices.Contains(output.Formats, fmt.Sprint(value)) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

func AttrsValidator(value any) error {
	var list attrs.AttrList
	return list.Set(fmt.Sprint(value))
}

func IndentValidator(value any) error {
	_, err := jsonio.ParseIndent(fmt.Sprint(value))
	return err
}

func PositiveValidator(value any) error {
	switch v := value.(type) {
	case uint:
		if v == 0 {
			return errors.New("must be greater than 0")
		}
	case int:
		if v <= 0 {
			return errors.New("must be greater than 0")
		}
	}
	return nil
}
