package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system:
// server settings, input/output paths, numeric modes, column names and the heat layer.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	INPUT_PATH=mapatktmedio.csv
//	OUTPUT_PATH=mapa_tudo_com_carrinho.html
//	MODE_PROFIT=thousands
//	COL_TICKET="TKT MED"
//	HEAT_THRESHOLD=25
type Config struct {
	Server  ServerConfig  // HTTP server configuration
	Files   FilesConfig   // Render mode input/output
	Modes   ModesConfig   // Numeric mode per numeric column
	Columns ColumnsConfig // Header names
	Heat    HeatConfig    // Heat layer weighting
	Map     MapConfig     // Artifact settings
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string // The TCP port the HTTP server will listen on (e.g., "8080")
	MaxUploadMB        int    // Maximum accepted upload size
	RateLimitPerMinute int    // Requests per client IP per minute
}

// FilesConfig holds the default paths used in render mode.
type FilesConfig struct {
	InputPath        string
	OutputPath       string
	SniffSampleBytes int
}

// ModesConfig holds the numeric mode name ("simple" or "thousands") of each field.
// Which exports carry thousands grouping is deployment-specific.
type ModesConfig struct {
	Latitude  string
	Longitude string
	Ticket    string
	Profit    string
	Margin    string
}

// ColumnsConfig holds the CSV header names of the fields the pipeline reads.
type ColumnsConfig struct {
	Latitude       string
	Longitude      string
	Ticket         string
	Profit         string
	Margin         string
	Faixa          string
	SemComprar     string
	Supervisor     string
	CNPJ           string
	Fantasia       string
	Vendedor       string
	Rota           string
	FormaPagamento string

	StrictCoordinates bool // drop rows with out-of-range coordinates
}

// HeatConfig tunes the density layer.
//
// Fields:
//   - Enabled: emit heat points at all.
//   - Threshold: margin percent below which a customer weighs HighWeight.
//   - HighWeight / LowWeight: weights below / at-or-above the threshold.
type HeatConfig struct {
	Enabled    bool
	Threshold  float64
	HighWeight float64
	LowWeight  float64
}

// MapConfig holds artifact presentation settings.
type MapConfig struct {
	Title string
	Zoom  int
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// validModes are the accepted numeric mode names.
var validModes = map[string]struct{}{"simple": {}, "thousands": {}, "thousands-aware": {}}

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If values are missing or invalid, validateConfig() terminates the app
//     with a descriptive log message.
func LoadConfig() {
	setDefaults()

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			MaxUploadMB:        viper.GetInt("MAX_UPLOAD_MB"),
			RateLimitPerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
		Files: FilesConfig{
			InputPath:        viper.GetString("INPUT_PATH"),
			OutputPath:       viper.GetString("OUTPUT_PATH"),
			SniffSampleBytes: viper.GetInt("SNIFF_SAMPLE_BYTES"),
		},
		Modes: ModesConfig{
			Latitude:  mode("MODE_LATITUDE"),
			Longitude: mode("MODE_LONGITUDE"),
			Ticket:    mode("MODE_TICKET"),
			Profit:    mode("MODE_PROFIT"),
			Margin:    mode("MODE_MARGIN"),
		},
		Columns: ColumnsConfig{
			Latitude:          viper.GetString("COL_LATITUDE"),
			Longitude:         viper.GetString("COL_LONGITUDE"),
			Ticket:            viper.GetString("COL_TICKET"),
			Profit:            viper.GetString("COL_PROFIT"),
			Margin:            viper.GetString("COL_MARGIN"),
			Faixa:             viper.GetString("COL_FAIXA"),
			SemComprar:        viper.GetString("COL_SEM_COMPRAR"),
			Supervisor:        viper.GetString("COL_SUPERVISOR"),
			CNPJ:              viper.GetString("COL_CNPJ"),
			Fantasia:          viper.GetString("COL_FANTASIA"),
			Vendedor:          viper.GetString("COL_VENDEDOR"),
			Rota:              viper.GetString("COL_ROTA"),
			FormaPagamento:    viper.GetString("COL_FORMA_PAGAMENTO"),
			StrictCoordinates: viper.GetBool("STRICT_COORDINATES"),
		},
		Heat: HeatConfig{
			Enabled:    viper.GetBool("HEAT_ENABLED"),
			Threshold:  viper.GetFloat64("HEAT_THRESHOLD"),
			HighWeight: viper.GetFloat64("HEAT_HIGH_WEIGHT"),
			LowWeight:  viper.GetFloat64("HEAT_LOW_WEIGHT"),
		},
		Map: MapConfig{
			Title: viper.GetString("MAP_TITLE"),
			Zoom:  viper.GetInt("MAP_ZOOM"),
		},
	}

	validateConfig()
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("MAX_UPLOAD_MB", 20)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 60)

	viper.SetDefault("INPUT_PATH", "mapatktmedio.csv")
	viper.SetDefault("OUTPUT_PATH", "mapa_tudo_com_carrinho.html")
	viper.SetDefault("SNIFF_SAMPLE_BYTES", 2048)

	for _, k := range []string{"MODE_LATITUDE", "MODE_LONGITUDE", "MODE_TICKET", "MODE_PROFIT", "MODE_MARGIN"} {
		viper.SetDefault(k, "simple")
	}

	viper.SetDefault("COL_LATITUDE", "LATITUDE")
	viper.SetDefault("COL_LONGITUDE", "LONGITUDE")
	viper.SetDefault("COL_TICKET", "TKT MED")
	viper.SetDefault("COL_PROFIT", "LUCRO MEDIO")
	viper.SetDefault("COL_MARGIN", "MARGEM")
	viper.SetDefault("COL_FAIXA", "FAIXA")
	viper.SetDefault("COL_SEM_COMPRAR", "SEM COMPRAR?")
	viper.SetDefault("COL_SUPERVISOR", "SUPERVISOR")
	viper.SetDefault("COL_CNPJ", "CNPJ")
	viper.SetDefault("COL_FANTASIA", "FANTASIA")
	viper.SetDefault("COL_VENDEDOR", "VENDEDOR")
	viper.SetDefault("COL_ROTA", "ROTA")
	viper.SetDefault("COL_FORMA_PAGAMENTO", "FORMA DE PAGAMENTO")
	viper.SetDefault("STRICT_COORDINATES", false)

	viper.SetDefault("HEAT_ENABLED", true)
	viper.SetDefault("HEAT_THRESHOLD", 25.0)
	viper.SetDefault("HEAT_HIGH_WEIGHT", 100.0)
	viper.SetDefault("HEAT_LOW_WEIGHT", 10.0)

	viper.SetDefault("MAP_TITLE", "Mapa de clientes - ticket médio")
	viper.SetDefault("MAP_ZOOM", 8)
}

func mode(key string) string {
	return strings.ToLower(strings.TrimSpace(viper.GetString(key)))
}

// problems lists every missing or invalid setting of AppConfig.
func problems() []string {
	var out []string

	if AppConfig.Server.Port == "" {
		out = append(out, "SERVER_PORT")
	}
	if AppConfig.Server.MaxUploadMB <= 0 {
		out = append(out, "MAX_UPLOAD_MB")
	}
	if AppConfig.Server.RateLimitPerMinute <= 0 {
		out = append(out, "RATE_LIMIT_PER_MINUTE")
	}
	if AppConfig.Files.SniffSampleBytes <= 0 {
		out = append(out, "SNIFF_SAMPLE_BYTES")
	}
	if AppConfig.Columns.Latitude == "" {
		out = append(out, "COL_LATITUDE")
	}
	if AppConfig.Columns.Longitude == "" {
		out = append(out, "COL_LONGITUDE")
	}

	modes := map[string]string{
		"MODE_LATITUDE":  AppConfig.Modes.Latitude,
		"MODE_LONGITUDE": AppConfig.Modes.Longitude,
		"MODE_TICKET":    AppConfig.Modes.Ticket,
		"MODE_PROFIT":    AppConfig.Modes.Profit,
		"MODE_MARGIN":    AppConfig.Modes.Margin,
	}
	for _, k := range []string{"MODE_LATITUDE", "MODE_LONGITUDE", "MODE_TICKET", "MODE_PROFIT", "MODE_MARGIN"} {
		if _, ok := validModes[modes[k]]; !ok {
			out = append(out, k)
		}
	}

	if AppConfig.Heat.HighWeight < 0 {
		out = append(out, "HEAT_HIGH_WEIGHT")
	}
	if AppConfig.Heat.LowWeight < 0 {
		out = append(out, "HEAT_LOW_WEIGHT")
	}
	if AppConfig.Map.Zoom <= 0 {
		out = append(out, "MAP_ZOOM")
	}
	return out
}

// validateConfig ensures required variables are present and valid and terminates
// the application otherwise.
func validateConfig() {
	if p := problems(); len(p) > 0 {
		log.Fatalf("missing or invalid configuration: %v\n", p)
	}
}
