// Package config loads runtime settings for the drop tooling. Layering
// follows defaults -> .env/environment -> command-line flags, later sources
// winning. Everything is read once at startup.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/tokendrop/internal/common"
	"github.com/dmitrijs2005/tokendrop/internal/flagx"
)

// Network names accepted by the tooling. Each carries a default contract
// address so the console can offer a sensible connect target.
const (
	NetworkLocalhost = "localhost"
	NetworkSepolia   = "sepolia"
)

type Config struct {
	// Pinning service credentials: either key+secret or a JWT.
	PinataAPIKey    string
	PinataSecretKey string
	PinataJWT       string

	// IPFSGateway is the base URL image and token URIs are built against.
	IPFSGateway string

	// Target chain.
	Network         string
	RPCURL          string
	ChainID         int64
	PrivateKey      string // hex-encoded signer key
	ContractAddress string // default contract to connect to
	ArtifactPath    string // compiled contract artifact, needed for deploys

	// Local layout.
	RootPath     string
	SeriesDigits int
	TokenDigits  int

	// Optional artifact archive.
	S3Bucket   string
	S3Region   string
	S3Endpoint string
	S3User     string
	S3Password string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.IPFSGateway = "https://gateway.pinata.cloud"
	c.Network = NetworkLocalhost
	c.RootPath = "tokens"
	c.SeriesDigits = 4
	c.TokenDigits = 5
}

// Load constructs a Config: defaults, then .env plus process environment,
// then flags. The network name is validated and its per-network defaults
// (RPC URL, chain id, default contract address) are applied last for any
// field the environment left empty.
func Load() (*Config, error) {
	if envFile := flagx.EnvFileFlags(); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.parseEnv()
	cfg.parseFlags()

	if err := cfg.applyNetworkDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) parseEnv() {
	c.PinataAPIKey = getEnv("PINATA_API_KEY", c.PinataAPIKey)
	c.PinataSecretKey = getEnv("PINATA_SECRET_KEY", c.PinataSecretKey)
	c.PinataJWT = getEnv("PINATA_JWT", c.PinataJWT)
	c.IPFSGateway = getEnv("IPFS_GATEWAY", c.IPFSGateway)

	c.Network = getEnv("NETWORK", c.Network)
	c.RPCURL = getEnv("RPC_URL", c.RPCURL)
	c.ChainID = getEnvInt64("CHAIN_ID", c.ChainID)
	c.PrivateKey = getEnv("PRIVATE_KEY", c.PrivateKey)
	c.ContractAddress = getEnv("CONTRACT_ADDRESS", c.ContractAddress)
	c.ArtifactPath = getEnv("CONTRACT_ARTIFACT", c.ArtifactPath)

	c.RootPath = getEnv("ROOT_PATH", c.RootPath)
	c.SeriesDigits = getEnvInt("SERIES_DIGITS", c.SeriesDigits)
	c.TokenDigits = getEnvInt("TOKEN_DIGITS", c.TokenDigits)

	c.S3Bucket = getEnv("S3_BUCKET", c.S3Bucket)
	c.S3Region = getEnv("S3_REGION", c.S3Region)
	c.S3Endpoint = getEnv("S3_BASE_ENDPOINT", c.S3Endpoint)
	c.S3User = getEnv("S3_ROOT_USER", c.S3User)
	c.S3Password = getEnv("S3_ROOT_PASSWORD", c.S3Password)
}

// networkDefaults are the well-known local/test deployments the original
// operators worked against; the environment can override all of them.
var networkDefaults = map[string]struct {
	chainID  int64
	rpcURL   string
	contract string
}{
	NetworkLocalhost: {31337, "http://127.0.0.1:8545", "0x5FbDB2315678afecb367f032d93F642f64180aa3"},
	NetworkSepolia:   {11155111, "", "0x0c3569e963Cbdf810F9481587a709a8A82f8dE0A"},
}

func (c *Config) applyNetworkDefaults() error {
	d, ok := networkDefaults[c.Network]
	if !ok {
		return fmt.Errorf("network %q: %w", c.Network, common.ErrUnknownNetwork)
	}
	if c.ChainID == 0 {
		c.ChainID = d.chainID
	}
	if c.RPCURL == "" {
		c.RPCURL = d.rpcURL
	}
	if c.ContractAddress == "" {
		c.ContractAddress = d.contract
	}
	return nil
}

// ArchiveEnabled reports whether generated drops should also be uploaded to
// the S3 archive.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Bucket != ""
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return n
}
