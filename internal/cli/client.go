package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// --- Response types (дублируются из api/game, Client не импортирует серверные пакеты) ---

// Vector — координаты или скорость.
type Vector struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String возвращает "(x, y)".
func (v Vector) String() string {
	return fmt.Sprintf("(%d, %d)", v.X, v.Y)
}

// Ship — корабль в запросе создания и в снимке игры.
type Ship struct {
	ID              string `json:"id"`
	Position        Vector `json:"position"`
	Velocity        Vector `json:"velocity"`
	Direction       int    `json:"direction"`
	AngularVelocity int    `json:"angular_velocity"`
	Directions      int    `json:"directions"`
	Fuel            int    `json:"fuel"`
	FuelRate        int    `json:"fuel_rate"`
	Ammo            int    `json:"ammo"`
	AmmoCapacity    int    `json:"ammo_capacity"`
	Static          bool   `json:"static,omitempty"`
}

// GameResponse — сводка игры из API.
type GameResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name,omitempty"`
	Scope       string   `json:"scope"`
	Status      string   `json:"status"`
	Ships       int      `json:"ships"`
	Pending     int      `json:"pending"`
	WorkerState string   `json:"worker_state"`
	Errors      []string `json:"errors,omitempty"`
	CreatedAt   string   `json:"created_at"`
	StoppedAt   string   `json:"stopped_at,omitempty"`
}

// SnapshotResponse — снимок игры из API.
type SnapshotResponse struct {
	GameResponse
	Tick       int64  `json:"tick"`
	ShipStates []Ship `json:"ship_states"`
}

// --- Request types ---

// CreateGameRequest — создание игры.
type CreateGameRequest struct {
	Name  string `json:"name,omitempty"`
	Ships []Ship `json:"ships"`
}

// CommandRequest — команда игре.
type CommandRequest struct {
	Key    string `json:"key"`
	ShipID string `json:"ship_id,omitempty"`
}

type stopRequest struct {
	Soft bool `json:"soft"`
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// APIError — ошибка, возвращённая сервером.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("API error: HTTP %d", e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// --- Client ---

// Client — HTTP-клиент для SpaceBattle API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListGames возвращает сводки всех игр.
func (c *Client) ListGames() ([]GameResponse, error) {
	var games []GameResponse
	err := c.list("/api/v1/games", &games)
	return games, err
}

// CreateGame создаёт игру.
func (c *Client) CreateGame(req CreateGameRequest) (*GameResponse, error) {
	var g GameResponse
	err := c.doData(http.MethodPost, "/api/v1/games", req, &g)
	return &g, err
}

// GetGame возвращает снимок игры.
func (c *Client) GetGame(id string) (*SnapshotResponse, error) {
	var s SnapshotResponse
	err := c.doData(http.MethodGet, "/api/v1/games/"+id, nil, &s)
	return &s, err
}

// SubmitCommand ставит команду в очередь игры.
func (c *Client) SubmitCommand(id string, req CommandRequest) error {
	return c.doData(http.MethodPost, "/api/v1/games/"+id+"/commands", req, nil)
}

// StopGame останавливает игру.
func (c *Client) StopGame(id string, soft bool) (*GameResponse, error) {
	var g GameResponse
	err := c.doData(http.MethodPost, "/api/v1/games/"+id+"/stop", stopRequest{Soft: soft}, &g)
	return &g, err
}

// --- HTTP helpers ---

func (c *Client) list(path string, result any) error {
	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkError(resp); err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return json.Unmarshal(dr.Data, result)
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err == nil {
		apiErr.Code = er.Error.Code
		apiErr.Message = er.Error.Message
	}
	return apiErr
}
