package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/latticelang/lattice/pkg/types"
)

func newValidateTypeCommand() *cobra.Command {
	var typeName, valueJSON string

	cmd := &cobra.Command{
		Use:   "validate-type",
		Short: "Check a JSON-literal value against a type name",
		Long: `validate-type builds one of the core's non-parametrised types by name
and reports whether --value, read as a JSON literal, is an instance of
it (pkg/types.Type.IsInstance).

Supported names: Any, Undef, Boolean, Numeric, Scalar, Data, String,
Integer, Float. Parametrised forms ("Integer[0,10]") require a type
expression parser, which this core does not own; construct the
pkg/types.Type directly when embedding the compiler instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ty, err := lookupSimpleType(typeName)
			if err != nil {
				return err
			}

			var decoded any
			if err := json.Unmarshal([]byte(valueJSON), &decoded); err != nil {
				return fmt.Errorf("parsing --value as JSON: %w", err)
			}
			v, err := jsonToValue(decoded)
			if err != nil {
				return err
			}

			ok := ty.IsInstance(v)
			fmt.Fprintf(cmd.OutOrStdout(), "%s is_a %s: %t\n", v.Display(), ty.String(), ok)
			if !ok {
				return fmt.Errorf("value is not an instance of %s", ty.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&typeName, "type", "Any", "type name to validate against")
	cmd.Flags().StringVar(&valueJSON, "value", "null", "value to check, as a JSON literal")

	return cmd
}

func lookupSimpleType(name string) (types.Type, error) {
	switch name {
	case "Any":
		return types.Any(), nil
	case "Undef":
		return types.UndefT(), nil
	case "Boolean":
		return types.BooleanT(), nil
	case "Numeric":
		return types.NumericT(), nil
	case "Scalar":
		return types.ScalarT(), nil
	case "Data":
		return types.DataT(), nil
	case "String":
		return types.NewStringType(0, -1), nil
	case "Integer":
		return types.NewIntegerType(nil, nil), nil
	case "Float":
		return types.NewFloatType(nil, nil), nil
	default:
		return nil, fmt.Errorf("unsupported type name %q", name)
	}
}
