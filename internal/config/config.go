package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every service setting.
type Config struct {
	Server    ServerConfig
	Assistant AssistantConfig
	Cart      CartConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	assistant, err := loadAssistantConfig()
	if err != nil {
		return nil, err
	}

	cart, err := loadCartConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Assistant: assistant, Cart: cart}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AssistantConfig tunes the dialogue surfaces.
type AssistantConfig struct {
	// ReplyDelay spaces SSE chunks to simulate typing. Cosmetic only.
	ReplyDelay time.Duration
	// ListenTimeout bounds a voice capture window.
	ListenTimeout time.Duration
	// FallbackSeed pins fallback-template selection when set.
	FallbackSeed *int64
}

func loadAssistantConfig() (AssistantConfig, error) {
	delayMs, err := parseOptionalIntEnv("ASSISTANT_REPLY_DELAY_MS")
	if err != nil {
		return AssistantConfig{}, err
	}
	replyDelay := time.Duration(0)
	if delayMs != nil {
		if *delayMs < 0 {
			return AssistantConfig{}, fmt.Errorf("ASSISTANT_REPLY_DELAY_MS must not be negative")
		}
		replyDelay = time.Duration(*delayMs) * time.Millisecond
	}

	timeoutSec, err := parseOptionalIntEnv("ASSISTANT_LISTEN_TIMEOUT")
	if err != nil {
		return AssistantConfig{}, err
	}
	listenTimeout := 30 * time.Second
	if timeoutSec != nil {
		listenTimeout = time.Duration(*timeoutSec) * time.Second
	}

	seed, err := parseOptionalInt64Env("ASSISTANT_FALLBACK_SEED")
	if err != nil {
		return AssistantConfig{}, err
	}

	return AssistantConfig{
		ReplyDelay:    replyDelay,
		ListenTimeout: listenTimeout,
		FallbackSeed:  seed,
	}, nil
}

// CartConfig tunes cart pricing and join codes.
type CartConfig struct {
	TaxRateBasisPoints int64
	DeliveryFeeCents   int64
	JoinCodeLength     int
}

func loadCartConfig() (CartConfig, error) {
	taxBps, err := parseOptionalInt64Env("CART_TAX_RATE_BPS")
	if err != nil {
		return CartConfig{}, err
	}
	rate := int64(850)
	if taxBps != nil {
		if *taxBps < 0 {
			return CartConfig{}, fmt.Errorf("CART_TAX_RATE_BPS must not be negative")
		}
		rate = *taxBps
	}

	feeCents, err := parseOptionalInt64Env("CART_DELIVERY_FEE_CENTS")
	if err != nil {
		return CartConfig{}, err
	}
	fee := int64(299)
	if feeCents != nil {
		if *feeCents < 0 {
			return CartConfig{}, fmt.Errorf("CART_DELIVERY_FEE_CENTS must not be negative")
		}
		fee = *feeCents
	}

	codeLen, err := parseOptionalIntEnv("CART_JOIN_CODE_LENGTH")
	if err != nil {
		return CartConfig{}, err
	}
	length := 8
	if codeLen != nil {
		if *codeLen < 4 || *codeLen > 64 {
			return CartConfig{}, fmt.Errorf("CART_JOIN_CODE_LENGTH must be between 4 and 64")
		}
		length = *codeLen
	}

	return CartConfig{
		TaxRateBasisPoints: rate,
		DeliveryFeeCents:   fee,
		JoinCodeLength:     length,
	}, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalInt64Env(key string) (*int64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
