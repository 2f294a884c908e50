// Generic list, get and delete commands shared by every record kind.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/planu/internal/garage"
)

// recordView describes how one record kind is printed.
type recordView[T any] struct {
	kind   string
	header []string
	row    func(T) []string
}

func (v recordView[T]) rows(items []T) [][]string {
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = v.row(item)
	}
	return rows
}

func newListCmd[T any](s *session, view recordView[T], list func(context.Context, *garage.Garage) ([]T, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %ss, newest first", view.kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withGarage(cmd.Context(), func(g *garage.Garage) error {
				items, err := list(cmd.Context(), g)
				if err != nil {
					return err
				}
				return s.render(cmd.OutOrStdout(), items, view.header, view.rows(items))
			})
		},
	}
}

func newGetCmd[T any](s *session, view recordView[T], get func(context.Context, *garage.Garage, int) (T, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Show one %s", view.kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return s.withGarage(cmd.Context(), func(g *garage.Garage) error {
				item, err := get(cmd.Context(), g, id)
				if err != nil {
					return fmt.Errorf("%s %d: %w", view.kind, id, err)
				}
				return s.render(cmd.OutOrStdout(), item, view.header, [][]string{view.row(item)})
			})
		},
	}
}

func newDeleteCmd(s *session, kind, long string, del func(context.Context, *garage.Garage, int) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", kind),
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return s.withGarage(cmd.Context(), func(g *garage.Garage) error {
				deleted, err := del(cmd.Context(), g, id)
				if err != nil {
					return err
				}
				return s.renderDeleted(cmd.OutOrStdout(), kind, id, deleted)
			})
		},
	}
}

// writeRecord prints a created or updated record.
func writeRecord[T any](s *session, cmd *cobra.Command, view recordView[T], verb string, id int, item T) error {
	if s.jsonMode {
		return writeJSON(cmd.OutOrStdout(), item)
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s %d\n", verb, view.kind, id)
	return err
}
