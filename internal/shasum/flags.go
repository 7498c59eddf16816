package shasum

import "github.com/urfave/cli"

var (
	// AlgoFlag selects the SHA-2 variant.
	AlgoFlag = cli.StringFlag{
		Name:   "algo, a",
		Value:  DefaultAlgorithm,
		Usage:  "digest algorithm: sha224, sha256, sha384, sha512, sha512/224, sha512/256",
		EnvVar: EnvAlgo,
	}
	// ZstdFlag decodes inputs as zstd streams before hashing.
	ZstdFlag = cli.BoolFlag{
		Name:  "zstd, z",
		Usage: "decompress zstd input and hash the plaintext",
	}
)

// sum flags
var (
	TarFlag = cli.BoolFlag{
		Name:  "tar",
		Usage: "treat each input as a tar archive and hash its regular members",
	}
	TagFlag = cli.BoolFlag{
		Name:  "tag",
		Usage: "emit BSD-style lines: SHA256 (path) = hex",
	}
	JSONFlag = cli.BoolFlag{
		Name:  "json",
		Usage: "emit a JSON array of entries",
	}
	OutputFlag = cli.StringFlag{
		Name:  "output, o",
		Usage: "write the manifest to a file instead of stdout",
	}
	SidecarFlag = cli.BoolFlag{
		Name:  "sidecar",
		Usage: "write a <file>.<algo> digest next to every input file",
	}
)

// check flags
var (
	QuietFlag = cli.BoolFlag{
		Name:  "quiet, q",
		Usage: "do not print OK for each verified file",
	}
	SidecarCheckFlag = cli.BoolFlag{
		Name:  "sidecar",
		Usage: "arguments are files verified against their <file>.<algo> digests",
	}
	BaseDirFlag = cli.StringFlag{
		Name:  "base-dir, C",
		Usage: "resolve relative manifest paths against `DIR` instead of the working directory",
	}
)

// hmac and kdf flags
var (
	KeyFlag = cli.StringFlag{
		Name:  "key, k",
		Usage: "hex-encoded HMAC key",
	}
	SaltFlag = cli.StringFlag{
		Name:  "salt, s",
		Usage: "hex-encoded salt",
	}
	InfoFlag = cli.StringFlag{
		Name:  "info",
		Usage: "HKDF context string",
	}
	IterFlag = cli.IntFlag{
		Name:  "iter",
		Value: DefaultIterations,
		Usage: "PBKDF2 iteration count",
	}
	LenFlag = cli.IntFlag{
		Name:  "len",
		Usage: "derived key length in bytes (default: digest size)",
	}
	ModeFlag = cli.StringFlag{
		Name:  "mode, m",
		Value: ModePBKDF2,
		Usage: "key derivation function: pbkdf2 or hkdf",
	}
)
