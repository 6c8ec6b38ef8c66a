package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewGameCmd создаёт группу команд для управления играми.
func NewGameCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Manage games",
	}

	cmd.AddCommand(
		newGameCreateCmd(clientFn, outputFn),
		newGameListCmd(clientFn, outputFn),
		newGameShowCmd(clientFn, outputFn),
		newGameStopCmd(clientFn, outputFn),
		newGameCommandCmd(clientFn, outputFn),
	)

	return cmd
}

var gameHeaders = []string{"ID", "NAME", "STATUS", "SHIPS", "PENDING", "WORKER", "ERRORS", "CREATED"}

func gameRow(g GameResponse) []string {
	return []string{
		g.ID,
		g.Name,
		g.Status,
		strconv.Itoa(g.Ships),
		strconv.Itoa(g.Pending),
		g.WorkerState,
		strconv.Itoa(len(g.Errors)),
		g.CreatedAt,
	}
}

func newGameCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name string
	var file string
	var ships []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a game",
		Long: `Create a game from --ship flags or a JSON file.

Ship format: id=alpha,x=12,y=5,vx=-7,vy=3,fuel=10,rate=1,ammo=1,capacity=2,dir=0,av=1,dirs=8,static=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := CreateGameRequest{Name: name}

			if file != "" {
				fromFile, err := readCreateRequest(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
				req = fromFile
				if name != "" {
					req.Name = name
				}
			}

			for _, s := range ships {
				ship, err := ParseShip(s)
				if err != nil {
					return err
				}
				req.Ships = append(req.Ships, ship)
			}

			g, err := clientFn().CreateGame(req)
			if err != nil {
				return err
			}

			out := outputFn()
			out.Success(fmt.Sprintf("Game created: %s", g.ID))
			out.Print(gameHeaders, [][]string{gameRow(*g)}, g)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Game name")
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the game spec (- for stdin)")
	cmd.Flags().StringArrayVar(&ships, "ship", nil, "Ship as key=value pairs (repeatable)")

	return cmd
}

func newGameListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List games",
		RunE: func(cmd *cobra.Command, args []string) error {
			games, err := clientFn().ListGames()
			if err != nil {
				return err
			}

			rows := make([][]string, len(games))
			for i, g := range games {
				rows[i] = gameRow(g)
			}

			outputFn().Print(gameHeaders, rows, games)
			return nil
		},
	}
}

func newGameShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show GAME_ID",
		Short: "Show game snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := clientFn().GetGame(args[0])
			if err != nil {
				return err
			}

			out := outputFn()
			if out.jsonMode {
				out.JSON(snap)
				return nil
			}

			out.Success(fmt.Sprintf("Game %s (%s), tick %d", snap.ID, snap.Status, snap.Tick))

			headers := []string{"SHIP", "POSITION", "VELOCITY", "DIR", "FUEL", "AMMO", "STATIC"}
			rows := make([][]string, len(snap.ShipStates))
			for i, s := range snap.ShipStates {
				rows[i] = []string{
					s.ID,
					s.Position.String(),
					s.Velocity.String(),
					fmt.Sprintf("%d/%d", s.Direction, s.Directions),
					fmt.Sprintf("%d (-%d)", s.Fuel, s.FuelRate),
					fmt.Sprintf("%d/%d", s.Ammo, s.AmmoCapacity),
					strconv.FormatBool(s.Static),
				}
			}
			out.Table(headers, rows)

			if len(snap.Errors) > 0 {
				out.Success("Errors:")
				out.Lines(snap.Errors)
			}
			return nil
		},
	}
}

func newGameStopCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var hard bool

	cmd := &cobra.Command{
		Use:   "stop GAME_ID",
		Short: "Stop a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := clientFn().StopGame(args[0], !hard)
			if err != nil {
				return err
			}

			out := outputFn()
			out.Success(fmt.Sprintf("Game stopped: %s", g.ID))
			out.Print(gameHeaders, [][]string{gameRow(*g)}, g)
			return nil
		},
	}

	cmd.Flags().BoolVar(&hard, "hard", false, "Drop pending commands instead of draining them")

	return cmd
}

func newGameCommandCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "command GAME_ID KEY [SHIP_ID]",
		Short: "Submit a command (Ship.Move, Ship.Rotate, Ship.Fire, Ship.Reload, Game.Tick)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := CommandRequest{Key: args[1]}
			if len(args) == 3 {
				req.ShipID = args[2]
			}

			if err := clientFn().SubmitCommand(args[0], req); err != nil {
				return err
			}

			outputFn().Success(fmt.Sprintf("Command accepted: %s", req.Key))
			return nil
		},
	}
}

// readCreateRequest читает описание игры из файла или stdin ("-").
func readCreateRequest(stdin io.Reader, path string) (CreateGameRequest, error) {
	var req CreateGameRequest

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return req, fmt.Errorf("open spec: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return req, fmt.Errorf("decode spec: %w", err)
	}
	return req, nil
}

// ParseShip разбирает корабль из строки key=value через запятую.
func ParseShip(s string) (Ship, error) {
	var ship Ship

	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return ship, fmt.Errorf("invalid ship field %q, expected KEY=VALUE", pair)
		}

		if k == "id" {
			ship.ID = v
			continue
		}
		if k == "static" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return ship, fmt.Errorf("invalid ship field %q: %w", pair, err)
			}
			ship.Static = b
			continue
		}

		n, err := strconv.Atoi(v)
		if err != nil {
			return ship, fmt.Errorf("invalid ship field %q: %w", pair, err)
		}

		switch k {
		case "x":
			ship.Position.X = n
		case "y":
			ship.Position.Y = n
		case "vx":
			ship.Velocity.X = n
		case "vy":
			ship.Velocity.Y = n
		case "dir":
			ship.Direction = n
		case "av":
			ship.AngularVelocity = n
		case "dirs":
			ship.Directions = n
		case "fuel":
			ship.Fuel = n
		case "rate":
			ship.FuelRate = n
		case "ammo":
			ship.Ammo = n
		case "capacity":
			ship.AmmoCapacity = n
		default:
			return ship, fmt.Errorf("unknown ship field %q", k)
		}
	}

	if ship.ID == "" {
		return ship, fmt.Errorf("ship id is required")
	}
	return ship, nil
}
