package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/planu/internal/garage"
	"github.com/mesh-intelligence/planu/pkg/types"
)

var clientView = recordView[types.Client]{
	kind:   "client",
	header: []string{"ID", "NAME", "EMAIL", "PHONE"},
	row: func(c types.Client) []string {
		return []string{itoa(c.ID), c.Name, c.Email, c.Phone}
	},
}

func newClientsCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clients",
		Aliases: []string{"client"},
		Short:   "Manage workshop clients",
	}
	cmd.AddCommand(
		newListCmd(s, clientView, func(ctx context.Context, g *garage.Garage) ([]types.Client, error) {
			return g.Clients.List(ctx)
		}),
		newGetCmd(s, clientView, func(ctx context.Context, g *garage.Garage, id int) (types.Client, error) {
			return g.Clients.Get(ctx, id)
		}),
		newClientCreateCmd(s),
		newClientUpdateCmd(s),
		newDeleteCmd(s, "client", "Delete a client together with its vehicles and their service orders.",
			func(ctx context.Context, g *garage.Garage, id int) (bool, error) {
				return g.Clients.Delete(ctx, id)
			}),
	)
	return cmd
}

type clientFlags struct {
	name, email, phone string
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "client name")
	cmd.Flags().StringVar(&f.email, "email", "", "e-mail address")
	cmd.Flags().StringVar(&f.phone, "phone", "", "phone number")
}

// apply copies the flags that were set on cmd onto c.
func (f *clientFlags) apply(cmd *cobra.Command, c *types.Client) {
	if cmd.Flags().Changed("name") {
		c.Name = f.name
	}
	if cmd.Flags().Changed("email") {
		c.Email = f.email
	}
	if cmd.Flags().Changed("phone") {
		c.Phone = f.phone
	}
}

func newClientCreateCmd(s *session) *cobra.Command {
	var f clientFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var c types.Client
			f.apply(cmd, &c)
			return s.withGarage(cmd.Context(), func(g *garage.Garage) error {
				created, err := g.Clients.Create(cmd.Context(), c)
				if err != nil {
					return err
				}
				return writeRecord(s, cmd, clientView, "Created", created.ID, created)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newClientUpdateCmd(s *session) *cobra.Command {
	var f clientFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a client; fields without a flag keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return s.withGarage(cmd.Context(), func(g *garage.Garage) error {
				updated, err := g.Clients.Edit(cmd.Context(), id, func(c *types.Client) error {
					f.apply(cmd, c)
					return nil
				})
				if err != nil {
					return err
				}
				return writeRecord(s, cmd, clientView, "Updated", id, updated)
			})
		},
	}
	f.register(cmd)
	return cmd
}
