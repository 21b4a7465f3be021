// Package coretools provides the baseline toolset bundled with the CLI.
package coretools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harun/conclave/pkg/toolkit"
)

// Basics is the built-in toolset: arithmetic, time, and text helpers.
type Basics struct{}

// NewBasics creates the built-in toolset.
func NewBasics() *Basics {
	return &Basics{}
}

// Name implements toolkit.Toolset.
func (b *Basics) Name() string {
	return "basics"
}

// Capabilities implements toolkit.Toolset.
func (b *Basics) Capabilities() []toolkit.Capability {
	return []toolkit.Capability{
		calculateCapability(),
		currentTimeCapability(),
		wordCountCapability(),
	}
}

func calculateCapability() toolkit.Capability {
	return toolkit.Capability{
		Name:        "calculate",
		Description: "Apply a binary arithmetic operation to two numbers.",
		Args: []toolkit.Arg{
			{Name: "op", Type: "", Enum: []string{"add", "sub", "mul", "div"}, Description: "Operation to apply"},
			{Name: "a", Type: 0.0, Description: "Left operand"},
			{Name: "b", Type: 0.0, Description: "Right operand"},
		},
		Returns: &toolkit.ReturnSpec{Type: 0.0, Description: "The numeric result"},
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			op, _ := args["op"].(string)
			a, aok := args["a"].(float64)
			bv, bok := args["b"].(float64)
			if !aok || !bok {
				return nil, fmt.Errorf("operands must be numbers")
			}
			switch op {
			case "add":
				return a + bv, nil
			case "sub":
				return a - bv, nil
			case "mul":
				return a * bv, nil
			case "div":
				if bv == 0 {
					return nil, fmt.Errorf("division by zero")
				}
				return a / bv, nil
			}
			return nil, fmt.Errorf("unknown operation %q", op)
		},
	}
}

func currentTimeCapability() toolkit.Capability {
	return toolkit.Capability{
		Name:        "current_time",
		Description: "Return the current time in RFC 3339 format.",
		Args:        nil,
		Returns:     &toolkit.ReturnSpec{Type: "", Description: "The current time"},
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			return time.Now().Format(time.RFC3339), nil
		},
	}
}

func wordCountCapability() toolkit.Capability {
	defaultSep := " "
	return toolkit.Capability{
		Name:        "word_count",
		Description: "Count the fields of a text split by a separator.",
		Args: []toolkit.Arg{
			{Name: "text", Type: "", Description: "Text to split"},
			{Name: "sep", Type: &defaultSep, Default: " ", Description: "Field separator"},
		},
		Returns: &toolkit.ReturnSpec{Type: 0, Description: "Number of fields"},
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			text, _ := args["text"].(string)
			sep, _ := args["sep"].(string)
			if sep == "" {
				sep = " "
			}
			count := 0
			for _, field := range strings.Split(text, sep) {
				if field != "" {
					count++
				}
			}
			return count, nil
		},
	}
}
