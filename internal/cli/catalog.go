// Commands for the parts and services catalogs.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/planu/internal/garage"
	"github.com/mesh-intelligence/planu/pkg/types"
)

var partView = recordView[types.Part]{
	kind:   "part",
	header: []string{"ID", "NAME", "CODE", "STOCK", "PRICE"},
	row: func(p types.Part) []string {
		return []string{itoa(p.ID), p.Name, p.Code, itoa(p.Stock), money(p.Price)}
	},
}

var serviceView = recordView[types.Service]{
	kind:   "service",
	header: []string{"ID", "DESCRIPTION", "PRICE"},
	row: func(sv types.Service) []string {
		return []string{itoa(sv.ID), sv.Description, money(sv.Price)}
	},
}

func newPartsCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "parts",
		Aliases: []string{"part"},
		Short:   "Manage the parts stock",
	}
	cmd.AddCommand(
		newListCmd(s, partView, func(ctx context.Context, g *garage.Garage) ([]types.Part, error) {
			return g.Parts.List(ctx)
		}),
		newGetCmd(s, partView, func(ctx context.Context, g *garage.Garage, id int) (types.Part, error) {
			return g.Parts.Get(ctx, id)
		}),
		newPartWriteCmd(s, false),
		newPartWriteCmd(s, true),
		newDeleteCmd(s, "part", "Delete a part and remove it from every service order.",
			func(ctx context.Context, g *garage.Garage, id int) (bool, error) {
				return g.Parts.Delete(ctx, id)
			}),
	)
	return cmd
}

func newServicesCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "services",
		Aliases: []string{"service"},
		Short:   "Manage the service catalog",
	}
	cmd.AddCommand(
		newListCmd(s, serviceView, func(ctx context.Context, g *garage.Garage) ([]types.Service, error) {
			return g.Services.List(ctx)
		}),
		newGetCmd(s, serviceView, func(ctx context.Context, g *garage.Garage, id int) (types.Service, error) {
			return g.Services.Get(ctx, id)
		}),
		newServiceWriteCmd(s, false),
		newServiceWriteCmd(s, true),
		newDeleteCmd(s, "service", "Delete a service and remove it from every service order.",
			func(ctx context.Context, g *garage.Garage, id int) (bool, error) {
				return g.Services.Delete(ctx, id)
			}),
	)
	return cmd
}

// newPartWriteCmd builds "parts create" or, with update set, "parts update".
func newPartWriteCmd(s *session, update bool) *cobra.Command {
	var (
		name, code string
		stock      int
		price      float64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a part",
		Args:  cobra.NoArgs,
	}
	if update {
		cmd.Use, cmd.Short, cmd.Args = "update <id>", "Update a part; fields without a flag keep their value", cobra.ExactArgs(1)
	}
	cmd.Flags().StringVar(&name, "name", "", "part name")
	cmd.Flags().StringVar(&code, "code", "", "part code")
	cmd.Flags().IntVar(&stock, "stock", 0, "units in stock")
	cmd.Flags().Float64Var(&price, "price", 0, "unit price")

	apply := func(p *types.Part) {
		if cmd.Flags().Changed("name") {
			p.Name = name
		}
		if cmd.Flags().Changed("code") {
			p.Code = code
		}
		if cmd.Flags().Changed("stock") {
			p.Stock = stock
		}
		if cmd.Flags().Changed("price") {
			p.Price = price
		}
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return s.withGarage(cmd.Context(), func(g *garage.Garage) error {
			ctx := cmd.Context()
			if !update {
				var p types.Part
				apply(&p)
				created, err := g.Parts.Create(ctx, p)
				if err != nil {
					return err
				}
				return writeRecord(s, cmd, partView, "Created", created.ID, created)
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			updated, err := g.Parts.Edit(ctx, id, func(p *types.Part) error {
				apply(p)
				return nil
			})
			if err != nil {
				return err
			}
			return writeRecord(s, cmd, partView, "Updated", id, updated)
		})
	}
	return cmd
}

// newServiceWriteCmd builds "services create" or, with update set,
// "services update".
func newServiceWriteCmd(s *session, update bool) *cobra.Command {
	var (
		description string
		price       float64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a service",
		Args:  cobra.NoArgs,
	}
	if update {
		cmd.Use, cmd.Short, cmd.Args = "update <id>", "Update a service; fields without a flag keep their value", cobra.ExactArgs(1)
	}
	cmd.Flags().StringVar(&description, "description", "", "service description")
	cmd.Flags().Float64Var(&price, "price", 0, "unit price")

	apply := func(sv *types.Service) {
		if cmd.Flags().Changed("description") {
			sv.Description = description
		}
		if cmd.Flags().Changed("price") {
			sv.Price = price
		}
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return s.withGarage(cmd.Context(), func(g *garage.Garage) error {
			ctx := cmd.Context()
			if !update {
				var sv types.Service
				apply(&sv)
				created, err := g.Services.Create(ctx, sv)
				if err != nil {
					return err
				}
				return writeRecord(s, cmd, serviceView, "Created", created.ID, created)
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			updated, err := g.Services.Edit(ctx, id, func(sv *types.Service) error {
				apply(sv)
				return nil
			})
			if err != nil {
				return err
			}
			return writeRecord(s, cmd, serviceView, "Updated", id, updated)
		})
	}
	return cmd
}
