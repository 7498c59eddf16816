package shasum

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli"
)

// Version is injected at build time with -ldflags "-X ...shasum.Version=...".
var Version = "dev"

// App bundles the process streams the commands read from and write to.
type App struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// RunCLI parses argv (including the program name) and dispatches to the
// sum, check, list, hmac, kdf or version commands.
func RunCLI(argv []string) error {
	return NewApp(os.Stdin, os.Stdout, os.Stderr).Run(argv)
}

// NewApp builds the command tree bound to the given streams.
func NewApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	a := &App{stdin: stdin, stdout: stdout, stderr: stderr}

	app := cli.NewApp()
	app.Name = "shasum"
	app.Usage = "compute and verify SHA-2 digests"
	app.Version = Version
	app.Writer = stdout
	app.ErrWriter = stderr
	app.OnUsageError = usageError
	app.Commands = []cli.Command{
		{
			Name:      "sum",
			Aliases:   []string{"s"},
			Usage:     "print digests of files, directory trees or tar members",
			ArgsUsage: "[PATH ...]",
			Flags:     []cli.Flag{AlgoFlag, ZstdFlag, TarFlag, TagFlag, JSONFlag, OutputFlag, SidecarFlag},
			Action:    a.runSum,
		},
		{
			Name:      "check",
			Aliases:   []string{"c"},
			Usage:     "verify a checksum manifest, or sidecar digests with --sidecar",
			ArgsUsage: "MANIFEST [PREFIX ...]",
			Flags:     []cli.Flag{AlgoFlag, ZstdFlag, QuietFlag, SidecarCheckFlag, BaseDirFlag},
			Action:    a.runCheck,
		},
		{
			Name:      "list",
			Aliases:   []string{"l", "ls"},
			Usage:     "list tar members with owner, time and digest",
			ArgsUsage: "ARCHIVE [PREFIX ...]",
			Flags:     []cli.Flag{AlgoFlag, ZstdFlag},
			Action:    a.runList,
		},
		{
			Name:      "hmac",
			Usage:     "print HMAC tags of files",
			ArgsUsage: "[PATH ...]",
			Flags:     []cli.Flag{AlgoFlag, KeyFlag},
			Action:    a.runHMAC,
		},
		{
			Name:   "kdf",
			Usage:  "derive a key from $" + EnvPass + " with PBKDF2 or HKDF",
			Flags:  []cli.Flag{AlgoFlag, SaltFlag, InfoFlag, IterFlag, LenFlag, ModeFlag},
			Action: a.runKDF,
		},
		{
			Name:   "version",
			Usage:  "print version information",
			Action: a.runVersion,
		},
	}
	for i := range app.Commands {
		app.Commands[i].OnUsageError = usageError
	}
	return app
}

func usageError(_ *cli.Context, err error, _ bool) error {
	return fmt.Errorf("%v: %w", err, ErrUsage)
}

func algorithmFrom(c *cli.Context) (Algorithm, error) {
	algo, err := LookupAlgorithm(c.String("algo"))
	if err != nil {
		return Algorithm{}, fmt.Errorf("%w: %w", err, ErrUsage)
	}
	return algo, nil
}

// inputs returns the positional arguments, or "-" when there are none.
func inputs(c *cli.Context) []string {
	if c.NArg() == 0 {
		return []string{StdinPath}
	}
	return c.Args()
}

func (a *App) runSum(c *cli.Context) error {
	algo, err := algorithmFrom(c)
	if err != nil {
		return err
	}
	if c.Bool("json") && c.Bool("tag") {
		return fmt.Errorf("--json and --tag are exclusive: %w", ErrUsage)
	}
	opts := SumOptions{Zstd: c.Bool("zstd"), Stdin: a.stdin}

	// Hash tar members or the files reachable from the inputs.
	var m *Manifest
	if c.Bool("tar") {
		m, err = SumTarFiles(inputs(c), algo, opts)
	} else {
		m, err = SumTree(inputs(c), algo, opts)
	}
	if err != nil {
		return err
	}

	// Store each file digest next to its file, reusing the computed entries.
	if c.Bool("sidecar") && !c.Bool("tar") {
		for _, e := range m.Entries {
			if e.Path == StdinPath {
				continue
			}
			if err := WriteSidecar(e.Path, e, algo); err != nil {
				return err
			}
		}
	}

	// Write the manifest to --output or stdout.
	out := a.stdout
	if path := c.String("output"); path != "" {
		if err := ensureParents(path); err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch {
	case c.Bool("json"):
		err = m.WriteJSON(out)
	case c.Bool("tag"):
		_, err = out.Write(m.Serialize(FormatBSD))
	default:
		_, err = out.Write(m.Serialize(FormatGNU))
	}
	if err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func (a *App) runCheck(c *cli.Context) error {
	algo, err := algorithmFrom(c)
	if err != nil {
		return err
	}
	opts := CheckOptions{
		Algorithm: algo,
		BaseDir:   c.String("base-dir"),
		Quiet:     c.Bool("quiet"),
		Sum:       SumOptions{Zstd: c.Bool("zstd"), Stdin: a.stdin},
		Out:       a.stdout,
	}

	// Sidecar mode verifies each file against its own digest file.
	if c.Bool("sidecar") {
		if c.NArg() == 0 {
			return fmt.Errorf("check --sidecar requires at least one file: %w", ErrUsage)
		}
		return a.checkSidecars(c.Args(), algo, opts)
	}

	if c.NArg() < 1 {
		return fmt.Errorf("usage: shasum check MANIFEST [PREFIX ...]: %w", ErrUsage)
	}
	// Otherwise the first argument is the manifest and the rest filter it.
	opts.Prefixes = c.Args().Tail()
	_, err = CheckFile(c.Args().First(), opts)
	return err
}

func (a *App) checkSidecars(paths []string, algo Algorithm, opts CheckOptions) error {
	bad := 0
	for _, p := range paths {
		ok, err := VerifyDigest(p, algo, opts.Sum)
		if err != nil {
			return err
		}
		status := "OK"
		if !ok {
			status = "FAILED"
			bad++
		} else if opts.Quiet {
			continue
		}
		if _, err := fmt.Fprintf(a.stdout, "%s: %s\n", p, status); err != nil {
			return fmt.Errorf("write check result: %w", err)
		}
	}
	if bad > 0 {
		return fmt.Errorf("%w: %d of %d sidecar digests did NOT match", ErrChecksumMismatch, bad, len(paths))
	}
	return nil
}

func (a *App) runList(c *cli.Context) error {
	algo, err := algorithmFrom(c)
	if err != nil {
		return err
	}
	if c.NArg() < 1 {
		return fmt.Errorf("usage: shasum list ARCHIVE [PREFIX ...]: %w", ErrUsage)
	}
	opts := SumOptions{Zstd: c.Bool("zstd"), Stdin: a.stdin}

	// Open the archive; the remaining arguments are prefixes.
	archive := c.Args().First()
	var r io.Reader = a.stdin
	if archive != StdinPath {
		f, err := os.Open(archive)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	return ListTar(r, algo, opts, c.Args().Tail(), a.stdout)
}

func (a *App) runHMAC(c *cli.Context) error {
	algo, err := algorithmFrom(c)
	if err != nil {
		return err
	}
	key, err := hex.DecodeString(c.String("key"))
	if err != nil || len(key) == 0 {
		return fmt.Errorf("hmac requires --key as non-empty hex: %w", ErrUsage)
	}

	// Tag each input, closing files as soon as they are read.
	m := &Manifest{}
	for _, p := range inputs(c) {
		var (
			tag []byte
			err error
		)
		if p == StdinPath {
			tag, err = HMACReader(a.stdin, key, algo)
		} else {
			var f *os.File
			f, err = os.Open(p)
			if err != nil {
				return err
			}
			tag, err = HMACReader(f, key, algo)
			f.Close()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		m.Entries = append(m.Entries, Entry{Path: p, Digest: hex.EncodeToString(tag), Algorithm: algo.Name})
	}

	_, err = a.stdout.Write(m.Serialize(FormatGNU))
	return err
}

func (a *App) runKDF(c *cli.Context) error {
	algo, err := algorithmFrom(c)
	if err != nil {
		return err
	}
	// The password only comes from the environment, never from argv.
	pass := os.Getenv(EnvPass)
	if pass == "" {
		return fmt.Errorf("%s must be set: %w", EnvPass, ErrUsage)
	}
	salt, err := hex.DecodeString(c.String("salt"))
	if err != nil {
		return fmt.Errorf("--salt must be hex: %w", ErrUsage)
	}

	// The session wipes the password copy once the key is derived.
	s := NewKeySession([]byte(pass))
	defer s.Close()

	key, err := s.Derive(KDFParams{
		Mode:       c.String("mode"),
		Salt:       salt,
		Info:       []byte(c.String("info")),
		Iterations: c.Int("iter"),
		KeyLen:     c.Int("len"),
		Algorithm:  algo,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, hex.EncodeToString(key))
	return err
}

func (a *App) runVersion(_ *cli.Context) error {
	_, err := fmt.Fprintf(a.stdout, "shasum %s\n", Version)
	return err
}

// ensureParents creates intermediate directories for a path (mkdir -p).
func ensureParents(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
