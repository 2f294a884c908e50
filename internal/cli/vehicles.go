package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/planu/internal/garage"
	"github.com/mesh-intelligence/planu/pkg/types"
)

var vehicleView = recordView[types.Vehicle]{
	kind:   "vehicle",
	header: []string{"ID", "PLATE", "MAKE", "MODEL", "YEAR", "CLIENT"},
	row: func(v types.Vehicle) []string {
		return []string{itoa(v.ID), v.Plate, v.Make, v.Model, itoa(v.Year), itoa(v.ClientID)}
	},
}

func newVehiclesCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vehicles",
		Aliases: []string{"vehicle"},
		Short:   "Manage client vehicles",
	}

	var clientID int
	list := newListCmd(s, vehicleView, func(ctx context.Context, g *garage.Garage) ([]types.Vehicle, error) {
		if clientID > 0 {
			return g.Vehicles.ListByClient(ctx, clientID)
		}
		return g.Vehicles.List(ctx)
	})
	list.Flags().IntVar(&clientID, "client", 0, "only vehicles of this client")

	cmd.AddCommand(
		list,
		newGetCmd(s, vehicleView, func(ctx context.Context, g *garage.Garage, id int) (types.Vehicle, error) {
			return g.Vehicles.Get(ctx, id)
		}),
		newVehicleCreateCmd(s),
		newVehicleUpdateCmd(s),
		newDeleteCmd(s, "vehicle", "Delete a vehicle and its service orders.",
			func(ctx context.Context, g *garage.Garage, id int) (bool, error) {
				return g.Vehicles.Delete(ctx, id)
			}),
	)
	return cmd
}

type vehicleFlags struct {
	plate, make, model string
	year, clientID     int
}

func (f *vehicleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.plate, "plate", "", "licence plate")
	cmd.Flags().StringVar(&f.make, "make", "", "manufacturer")
	cmd.Flags().StringVar(&f.model, "model", "", "model")
	cmd.Flags().IntVar(&f.year, "year", 0, "model year")
	cmd.Flags().IntVar(&f.clientID, "client", 0, "owning client id")
}

func (f *vehicleFlags) apply(cmd *cobra.Command, v *types.Vehicle) {
	if cmd.Flags().Changed("plate") {
		v.Plate = f.plate
	}
	if cmd.Flags().Changed("make") {
		v.Make = f.make
	}
	if cmd.Flags().Changed("model") {
		v.Model = f.model
	}
	if cmd.Flags().Changed("year") {
		v.Year = f.year
	}
	if cmd.Flags().Changed("client") {
		v.ClientID = f.clientID
	}
}

func newVehicleCreateCmd(s *session) *cobra.Command {
	var f vehicleFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a vehicle for a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var v types.Vehicle
			f.apply(cmd, &v)
			return s.withGarage(cmd.Context(), func(g *garage.Garage) error {
				created, err := g.Vehicles.Create(cmd.Context(), v)
				if err != nil {
					return err
				}
				return writeRecord(s, cmd, vehicleView, "Created", created.ID, created)
			})
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("client")
	return cmd
}

func newVehicleUpdateCmd(s *session) *cobra.Command {
	var f vehicleFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a vehicle; fields without a flag keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return s.withGarage(cmd.Context(), func(g *garage.Garage) error {
				updated, err := g.Vehicles.Edit(cmd.Context(), id, func(v *types.Vehicle) error {
					f.apply(cmd, v)
					return nil
				})
				if err != nil {
					return err
				}
				return writeRecord(s, cmd, vehicleView, "Updated", id, updated)
			})
		},
	}
	f.register(cmd)
	return cmd
}
