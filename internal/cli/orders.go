package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/planu/internal/garage"
	"github.com/mesh-intelligence/planu/pkg/types"
)

var orderView = recordView[types.ServiceOrder]{
	kind:   "order",
	header: []string{"ID", "CLIENT", "VEHICLE", "ENTRY", "STATUS", "SERVICES", "PARTS", "TOTAL"},
	row: func(o types.ServiceOrder) []string {
		return []string{
			itoa(o.ID), itoa(o.ClientID), itoa(o.VehicleID), o.EntryDate, o.Status,
			formatLineItems(o.Services), formatLineItems(o.Parts), money(o.Total()),
		}
	},
}

func newOrdersCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "Manage service orders",
	}

	var clientID int
	list := newListCmd(s, orderView, func(ctx context.Context, g *garage.Garage) ([]types.ServiceOrder, error) {
		if clientID > 0 {
			return g.Orders.ListByClient(ctx, clientID)
		}
		return g.Orders.List(ctx)
	})
	list.Flags().IntVar(&clientID, "client", 0, "only orders of this client")

	cmd.AddCommand(
		list,
		newGetCmd(s, orderView, func(ctx context.Context, g *garage.Garage, id int) (types.ServiceOrder, error) {
			return g.Orders.Get(ctx, id)
		}),
		newOrderWriteCmd(s, false),
		newOrderWriteCmd(s, true),
		newOrderStatusCmd(s),
		newDeleteCmd(s, "order", "Delete a service order.",
			func(ctx context.Context, g *garage.Garage, id int) (bool, error) {
				return g.Orders.Delete(ctx, id)
			}),
	)
	return cmd
}

// newOrderWriteCmd builds "orders create" or, with update set,
// "orders update". Line items are given as id:qty and may repeat; repeated
// ids are added up. On update, --service or --part replaces that whole list.
func newOrderWriteCmd(s *session, update bool) *cobra.Command {
	var (
		clientID, vehicleID int
		date, status, notes string
		services, parts     []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a service order",
		Args:  cobra.NoArgs,
	}
	if update {
		cmd.Use, cmd.Short, cmd.Args = "update <id>", "Update a service order; fields without a flag keep their value", cobra.ExactArgs(1)
	}
	cmd.Flags().IntVar(&clientID, "client", 0, "client id")
	cmd.Flags().IntVar(&vehicleID, "vehicle", 0, "vehicle id; must belong to the client")
	cmd.Flags().StringVar(&date, "date", "", "entry date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&status, "status", "", "status: "+strings.Join(types.Statuses, ", "))
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	cmd.Flags().StringArrayVar(&services, "service", nil, "service line item as id:qty (repeatable)")
	cmd.Flags().StringArrayVar(&parts, "part", nil, "part line item as id:qty (repeatable)")
	if !update {
		_ = cmd.MarkFlagRequired("client")
		_ = cmd.MarkFlagRequired("vehicle")
	}

	apply := func(o *types.ServiceOrder) error {
		flags := cmd.Flags()
		if flags.Changed("client") {
			o.ClientID = clientID
		}
		if flags.Changed("vehicle") {
			o.VehicleID = vehicleID
		}
		if flags.Changed("date") {
			o.EntryDate = date
		}
		if flags.Changed("status") {
			o.Status = status
		}
		if flags.Changed("notes") {
			o.Notes = notes
		}
		if flags.Changed("service") {
			items, err := parseLineItems(services)
			if err != nil {
				return err
			}
			o.Services = items
		}
		if flags.Changed("part") {
			items, err := parseLineItems(parts)
			if err != nil {
				return err
			}
			o.Parts = items
		}
		return nil
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if !update {
			var o types.ServiceOrder
			if err := apply(&o); err != nil {
				return err
			}
			return s.withGarage(cmd.Context(), func(g *garage.Garage) error {
				created, err := g.Orders.Create(cmd.Context(), o)
				if err != nil {
					return err
				}
				return writeRecord(s, cmd, orderView, "Created", created.ID, created)
			})
		}

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return s.withGarage(cmd.Context(), func(g *garage.Garage) error {
			updated, err := g.Orders.Edit(cmd.Context(), id, apply)
			if err != nil {
				return err
			}
			return writeRecord(s, cmd, orderView, "Updated", id, updated)
		})
	}
	return cmd
}

func newOrderStatusCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:       "status <id> <status>",
		Short:     "Move a service order to another status",
		Long:      "Move a service order to another status. Valid statuses: " + strings.Join(types.Statuses, ", ") + ".",
		Args:      cobra.ExactArgs(2),
		ValidArgs: types.Statuses,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return s.withGarage(cmd.Context(), func(g *garage.Garage) error {
				o, err := g.Orders.UpdateStatus(cmd.Context(), id, args[1])
				if err != nil {
					return err
				}
				if s.jsonMode {
					return writeJSON(cmd.OutOrStdout(), o)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Order %d is now %s\n", o.ID, o.Status)
				return err
			})
		},
	}
}
