// Package main provides the hill-cli command line interface for Hill cipher operations.
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	hill "github.com/BackendStack21/hill-go"
	"github.com/BackendStack21/hill-go/audio"
	"github.com/BackendStack21/hill-go/bytestream"
	hillconfig "github.com/BackendStack21/hill-go/config"
	"github.com/BackendStack21/hill-go/core"
	"github.com/BackendStack21/hill-go/keyfile"
	"github.com/BackendStack21/hill-go/keygen"
	"github.com/BackendStack21/hill-go/modmat"
	"github.com/BackendStack21/hill-go/text"
)

const (
	version = "1.0.0"
	appName = "hill-cli"
)

var logger = logrus.New()

func init() {
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
}

// CLIConfig holds the per-invocation settings.
type CLIConfig struct {
	Domain     hill.Domain
	Dimension  int
	Seed       string
	KeyFile    string
	Key        string
	InputFile  string
	OutputFile string
	Verbose    bool
	Timing     bool
}

// CiphertextExport is the on-disk form of a byte or audio ciphertext.
type CiphertextExport struct {
	Domain     string `json:"domain"`
	Length     int    `json:"length"`
	Ciphertext string `json:"ciphertext"` // base64 of the padded symbols
}

// InverseExport is printed by the invert command.
type InverseExport struct {
	Domain      string `json:"domain"`
	Modulus     int    `json:"modulus"`
	Key         string `json:"key"`
	Determinant string `json:"determinant"`
	Inverse     string `json:"inverse"`
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "help", "--help", "-h":
		printUsage()
	case "version", "--version", "-v":
		fmt.Printf("%s version %s\n", appName, version)
		fmt.Printf("hill-go library version %s\n", hill.Version)
	case "keygen":
		handleKeygen(os.Args[2:])
	case "invert":
		handleInvert(os.Args[2:])
	case "text":
		handleText(os.Args[2:])
	case "bytes":
		handleBytes(os.Args[2:])
	case "audio":
		handleAudio(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - Hill cipher toolkit

WARNING: the Hill cipher is linear and breaks under known plaintext.
Do not use it to protect sensitive data.

USAGE:
    %s <COMMAND> [OPTIONS]

COMMANDS:
    keygen      Generate an invertible key
    invert      Print the modular inverse of a key
    text        Encrypt or decrypt text (text, upper, morse domains)
    bytes       Encrypt or decrypt a byte stream
    audio       Harden or unharden raw 16-bit little-endian PCM
    version     Show version information
    help        Show this help message

OPTIONS:
    --config <file>         YAML configuration file
    --domain <name>         text, upper, morse, bytes or audio
    --dim <n>               Key dimension (default: domain default)
    --seed <string>         Seed for reproducible key generation
    --key <rows>            Key as "3,3;2,5"
    --key-file <file>       Key file written by keygen
    --input <file>          Input file
    --output <file>         Output file (default: stdout)
    --message <text>        Message for the text command
    --preserve-layout       Keep case and punctuation (upper domain)
    --audio-seed <n>        Audio permutation seed (default: from key file or key)
    --timing                Show timing information
    --verbose               Verbose output

EXAMPLES:
    %s keygen --domain text --output key.yaml
    %s text encrypt --key "3,3;2,5" --domain upper --message "HELLO"
    %s text decrypt --key-file key.yaml --message "<ciphertext>"
    %s bytes encrypt --key-file key.yaml --input photo.raw --output photo.json
    %s audio harden --key-file key.yaml --input voice.pcm --output voice.json
    %s invert --key "3,3;2,5" --domain bytes
`, appName, appName, appName, appName, appName, appName, appName, appName)
}

// ============================================================================
// Key Commands
// ============================================================================

func handleKeygen(args []string) {
	config := parseConfig(args)

	start := time.Now()
	key, err := generateKey(config)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating key: %v\n", err)
		os.Exit(1)
	}
	if config.Timing {
		fmt.Fprintf(os.Stderr, "Key generation took: %v\n", elapsed)
	}

	var kf *keyfile.KeyFile
	if config.Domain == hill.DomainAudio {
		var audioSeed int64
		audioSeed, err = resolveAudioSeed(args, nil, key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		kf, err = keyfile.NewWithSeed(config.Domain, key, audioSeed)
	} else {
		kf, err = keyfile.New(config.Domain, key)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating key file: %v\n", err)
		os.Exit(1)
	}
	output, err := keyfile.Marshal(kf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if config.OutputFile != "" {
		if err := keyfile.Save(config.OutputFile, kf); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger.Infof("Key saved to: %s", config.OutputFile)
	} else {
		fmt.Print(string(output))
	}
	logger.Debugf("Generated %dx%d key for domain %s (modulus %d, id %s)", len(key), len(key), kf.Domain, kf.Modulus, kf.ID)
}

func generateKey(config CLIConfig) (hill.Matrix, error) {
	if config.Seed == "" {
		return keygen.ForDomain(config.Domain, config.Dimension)
	}
	params, err := domainParams(config)
	if err != nil {
		return nil, err
	}
	return keygen.GenerateFromSeed(params.Dimension, params.Modulus, []byte(config.Seed))
}

func handleInvert(args []string) {
	config := parseConfig(args)
	key, domain, _, err := loadKey(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg := config
	cfg.Domain = domain
	params, err := domainParams(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	det, err := modmat.DeterminantMod(key, params.Modulus)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	inv, err := modmat.Inverse(key, params.Modulus)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	export := InverseExport{
		Domain:      string(domain),
		Modulus:     params.Modulus,
		Key:         keyfile.FormatKeyString(modmat.Reduce(key, params.Modulus)),
		Determinant: strconv.Itoa(det),
		Inverse:     keyfile.FormatKeyString(inv),
	}
	output, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling output: %v\n", err)
		os.Exit(1)
	}
	writeOutput(output, config.OutputFile)
}

// ============================================================================
// Text Commands
// ============================================================================

func handleText(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s text <encrypt|decrypt> [OPTIONS]\n", appName)
		os.Exit(1)
	}
	subcommand := args[0]
	config := parseConfig(args[1:])

	key, domain, _, err := loadKey(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	alphabet, err := text.ForDomain(domain)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	message, err := readMessage(args[1:], config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading message: %v\n", err)
		os.Exit(1)
	}
	preserve := hasFlag(args, "--preserve-layout", "-p")
	if preserve && domain != hill.DomainUpper {
		fmt.Fprintf(os.Stderr, "Error: --preserve-layout requires --domain upper\n")
		os.Exit(1)
	}

	var result string
	switch subcommand {
	case "encrypt", "enc":
		switch {
		case preserve:
			result, err = text.EncryptPreservingLayout(message, key)
		case domain == hill.DomainMorse:
			morse := text.ToMorse(message)
			logger.Debugf("Morse: %s", morse)
			result, err = text.Encrypt(alphabet, morse, key)
		default:
			result, err = text.Encrypt(alphabet, message, key)
		}
	case "decrypt", "dec":
		switch {
		case preserve:
			result, err = text.DecryptPreservingLayout(message, key)
		case domain == hill.DomainMorse:
			var morse string
			morse, err = text.Decrypt(alphabet, message, key)
			if err == nil {
				logger.Debugf("Morse: %s", morse)
				result = text.FromMorse(morse)
			}
		default:
			result, err = text.Decrypt(alphabet, message, key)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown text subcommand: %s\n", subcommand)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	writeOutput([]byte(result), config.OutputFile)
}

// ============================================================================
// Byte Stream Commands
// ============================================================================

func handleBytes(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s bytes <encrypt|decrypt> [OPTIONS]\n", appName)
		os.Exit(1)
	}
	subcommand := args[0]
	config := parseConfig(args[1:])
	config.Domain = hill.DomainBytes

	key, _, err := loadDomainKey(config, hill.DomainBytes, subcommand == "encrypt" || subcommand == "enc")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cipher, err := bytestream.NewCipher(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	input, err := readInput(config.InputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	switch subcommand {
	case "encrypt", "enc":
		ct, err := cipher.Encrypt(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		export := CiphertextExport{
			Domain:     string(hill.DomainBytes),
			Length:     ct.Length,
			Ciphertext: base64.StdEncoding.EncodeToString(bytestream.ResiduesToBytes(ct.Symbols)),
		}
		output, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling output: %v\n", err)
			os.Exit(1)
		}
		writeOutput(output, config.OutputFile)
		logger.Debugf("Encrypted %d bytes into %d symbols", ct.Length, len(ct.Symbols))
	case "decrypt", "dec":
		export, raw, err := parseCiphertextExport(input, hill.DomainBytes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		plain, err := cipher.Decrypt(&hill.Ciphertext{Symbols: bytestream.BytesToResidues(raw), Length: export.Length})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		writeRaw(plain, config.OutputFile)
	default:
		fmt.Fprintf(os.Stderr, "Unknown bytes subcommand: %s\n", subcommand)
		os.Exit(1)
	}
	if config.Timing {
		fmt.Fprintf(os.Stderr, "bytes %s took: %v\n", subcommand, time.Since(start))
	}
}

// ============================================================================
// Audio Commands
// ============================================================================

func handleAudio(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s audio <harden|unharden> [OPTIONS]\n", appName)
		os.Exit(1)
	}
	subcommand := args[0]
	config := parseConfig(args[1:])
	config.Domain = hill.DomainAudio

	key, fileSeed, err := loadDomainKey(config, hill.DomainAudio, subcommand == "harden" || subcommand == "encrypt" || subcommand == "enc")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	seed, err := resolveAudioSeed(args, fileSeed, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	layer, err := audio.New(key, seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	input, err := readInput(config.InputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	switch subcommand {
	case "harden", "encrypt", "enc":
		samples, err := audio.ReadPCM16(bytes.NewReader(input))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		ct, err := layer.Harden(audio.SamplesToResidues(samples))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		var pcm bytes.Buffer
		if err := audio.WritePCM16(&pcm, audio.ResiduesToSamples(ct.Symbols)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		export := CiphertextExport{
			Domain:     string(hill.DomainAudio),
			Length:     ct.Length,
			Ciphertext: base64.StdEncoding.EncodeToString(pcm.Bytes()),
		}
		output, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling output: %v\n", err)
			os.Exit(1)
		}
		writeOutput(output, config.OutputFile)
		logger.Debugf("Hardened %d samples (seed %d)", ct.Length, seed)
	case "unharden", "decrypt", "dec":
		export, raw, err := parseCiphertextExport(input, hill.DomainAudio)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		samples, err := audio.ReadPCM16(bytes.NewReader(raw))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		plain, err := layer.Unharden(&hill.Ciphertext{Symbols: audio.SamplesToResidues(samples), Length: export.Length})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		var pcm bytes.Buffer
		if err := audio.WritePCM16(&pcm, audio.ResiduesToSamples(plain)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		writeRaw(pcm.Bytes(), config.OutputFile)
	default:
		fmt.Fprintf(os.Stderr, "Unknown audio subcommand: %s\n", subcommand)
		os.Exit(1)
	}
	if config.Timing {
		fmt.Fprintf(os.Stderr, "audio %s took: %v\n", subcommand, time.Since(start))
	}
}

// resolveAudioSeed prefers --audio-seed, then a seed stored with the key,
// then one derived from the key itself.
func resolveAudioSeed(args []string, fileSeed *int64, key hill.Matrix) (int64, error) {
	if s := getArg(args, "--audio-seed", ""); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid --audio-seed %q: %w", s, err)
		}
		return seed, nil
	}
	if fileSeed != nil {
		return *fileSeed, nil
	}
	return audio.SeedFromKey(key), nil
}

// ============================================================================
// Helpers
// ============================================================================

func parseConfig(args []string) CLIConfig {
	fileCfg, err := hillconfig.Load(getArg(args, "--config", "-c"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	config := CLIConfig{
		Domain:    fileCfg.Domain,
		Dimension: fileCfg.Dimension,
		Seed:      fileCfg.Seed,
		KeyFile:   fileCfg.KeyFile,
	}
	if level, err := logrus.ParseLevel(fileCfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	if d := getArg(args, "--domain", "-d"); d != "" {
		config.Domain = hill.Domain(d)
	}
	if n := getArg(args, "--dim", "-n"); n != "" {
		dim, err := strconv.Atoi(n)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid dimension: %s\n", n)
			os.Exit(1)
		}
		config.Dimension = dim
	}
	if s := getArg(args, "--seed", "-s"); s != "" {
		config.Seed = s
	}
	if kf := getArg(args, "--key-file", "-k"); kf != "" {
		config.KeyFile = kf
	}
	config.Key = getArg(args, "--key", "")
	config.InputFile = getArg(args, "--input", "-i")
	config.OutputFile = getArg(args, "--output", "-o")
	config.Verbose = hasFlag(args, "--verbose", "-V")
	config.Timing = hasFlag(args, "--timing", "-t")

	if config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return config
}

func getArg(args []string, long, short string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == long || (short != "" && args[i] == short) {
			return args[i+1]
		}
	}
	return ""
}

func hasFlag(args []string, long, short string) bool {
	for _, arg := range args {
		if arg == long || (short != "" && arg == short) {
			return true
		}
	}
	return false
}

func domainParams(config CLIConfig) (core.DomainParams, error) {
	cfg := &hillconfig.Config{Domain: config.Domain, Dimension: config.Dimension}
	return cfg.Params()
}

// loadKey resolves the key from --key or a key file. A key file also fixes
// the domain and may carry an audio seed.
func loadKey(config CLIConfig) (hill.Matrix, hill.Domain, *int64, error) {
	if config.Key != "" {
		key, err := keyfile.ParseKeyString(config.Key)
		if err != nil {
			return nil, "", nil, fmt.Errorf("invalid --key: %w", err)
		}
		return key, config.Domain, nil, nil
	}
	if config.KeyFile == "" {
		return nil, "", nil, fmt.Errorf("--key or --key-file is required")
	}
	kf, err := keyfile.Load(config.KeyFile)
	if err != nil {
		return nil, "", nil, err
	}
	logger.Infof("Key loaded from: %s (id %s)", config.KeyFile, kf.ID)
	domain := kf.Domain
	if isTextDomain(config.Domain) && isTextDomain(domain) && config.Domain != domain {
		logger.Warnf("Key file domain %s overrides --domain %s", domain, config.Domain)
	}
	return kf.Matrix(), domain, kf.Seed, nil
}

// loadDomainKey is loadKey for the fixed-modulus bytes and audio commands.
// A key file written for another domain is refused. When encrypting, the key
// must also be invertible so the output can be decrypted.
func loadDomainKey(config CLIConfig, want hill.Domain, encrypting bool) (hill.Matrix, *int64, error) {
	key, domain, seed, err := loadKey(config)
	if err != nil {
		return nil, nil, err
	}
	if domain != want {
		return nil, nil, fmt.Errorf("key file is for domain %s, not %s", domain, want)
	}
	if encrypting {
		params, err := core.GetParams(want)
		if err != nil {
			return nil, nil, err
		}
		if !modmat.IsInvertible(key, params.Modulus) {
			return nil, nil, fmt.Errorf("%w: key has no inverse mod %d", hill.ErrNonInvertibleKey, params.Modulus)
		}
	}
	return key, seed, nil
}

func isTextDomain(d hill.Domain) bool {
	return d == hill.DomainText || d == hill.DomainUpper || d == hill.DomainMorse
}

func readMessage(args []string, config CLIConfig) (string, error) {
	if msg := getArg(args, "--message", "-m"); msg != "" {
		return msg, nil
	}
	data, err := readInput(config.InputFile)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// readInput reads the named file, or stdin when name is empty.
func readInput(name string) ([]byte, error) {
	if name == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

func parseCiphertextExport(data []byte, domain hill.Domain) (*CiphertextExport, []byte, error) {
	var export CiphertextExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, nil, fmt.Errorf("parse ciphertext: %w", err)
	}
	if export.Domain != string(domain) {
		return nil, nil, fmt.Errorf("ciphertext domain %q, want %q", export.Domain, domain)
	}
	raw, err := base64.StdEncoding.DecodeString(export.Ciphertext)
	if err != nil {
		return nil, nil, fmt.Errorf("decode ciphertext: %w", err)
	}
	return &export, raw, nil
}

func writeOutput(data []byte, filename string) {
	if filename != "" {
		writeFile(data, filename)
	} else {
		fmt.Println(string(data))
	}
}

// writeRaw writes binary output without a trailing newline.
func writeRaw(data []byte, filename string) {
	if filename != "" {
		writeFile(data, filename)
		return
	}
	if _, err := os.Stdout.Write(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
}

func writeFile(data []byte, filename string) {
	// Outputs may hold key material, so they are owner-only.
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		os.Exit(1)
	}
	if err := os.Chmod(filename, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting file permissions: %v\n", err)
		os.Exit(1)
	}
}
