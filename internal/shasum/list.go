package shasum

import (
	"archive/tar"
	"encoding/hex"
	"fmt"
	"io"
	"os/user"
	"strconv"
	"time"
)

// uidGidToNames tries to resolve uid/gid to local system user/group names.
// Missing entries yield empty strings and callers should fall back to numbers.
func uidGidToNames(uid, gid int) (string, string) {
	var uname string
	var gname string

	u, err := user.LookupId(strconv.Itoa(uid))
	if err == nil && u != nil && u.Username != "" {
		uname = u.Username
	}
	g, err := user.LookupGroupId(strconv.Itoa(gid))
	if err == nil && g != nil && g.Name != "" {
		gname = g.Name
	}
	return uname, gname
}

// ownerString builds a "user:group" string. Names stored in the header win,
// then local lookups, then the numeric ids.
func ownerString(hdr *tar.Header) string {
	uname, gname := hdr.Uname, hdr.Gname
	if uname == "" || gname == "" {
		lu, lg := uidGidToNames(hdr.Uid, hdr.Gid)
		if uname == "" {
			uname = lu
		}
		if gname == "" {
			gname = lg
		}
	}
	if uname == "" {
		uname = strconv.Itoa(hdr.Uid)
	}
	if gname == "" {
		gname = strconv.Itoa(hdr.Gid)
	}
	return uname + ":" + gname
}

// formatLocalTime formats a timestamp in local time as "YYYY-MM-DD HH:MM".
func formatLocalTime(t time.Time) string {
	return t.In(time.Local).Format("2006-01-02 15:04")
}

// typeChar picks the single-char type marker shown by ListTar.
func typeChar(flag byte) byte {
	switch flag {
	case tar.TypeReg:
		return '-'
	case tar.TypeDir:
		return 'd'
	case tar.TypeSymlink:
		return 'l'
	case tar.TypeFifo:
		return 'p'
	case tar.TypeLink:
		return 'h'
	default:
		return '?'
	}
}

// ListTar prints an ls-like listing of the tar members matching the
// optional prefixes, in archive order:
//
//	<type> <mode> <user:group> <YYYY-MM-DD HH:MM> <digest> <name>
//
// Regular members carry their digest; every other type shows "-".
func ListTar(r io.Reader, algo Algorithm, opts SumOptions, prefixes []string, w io.Writer) error {
	const errCtx = "listing tar members"

	src, closeContent, err := openContent(r, opts.Zstd)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}
	defer closeContent()

	tr := tar.NewReader(src)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
		if !matchesPrefix(hdr.Name, prefixes) {
			continue
		}

		digest := "-"
		if hdr.Typeflag == tar.TypeReg {
			sum, _, err := SumReader(tr, algo)
			if err != nil {
				return fmt.Errorf("%s: %s: %w", errCtx, hdr.Name, err)
			}
			digest = hex.EncodeToString(sum)
		}

		name, _ := escapeName(hdr.Name)
		if _, err := fmt.Fprintf(w, "%c %04o %s %s %s %s\n",
			typeChar(hdr.Typeflag),
			hdr.Mode&0o7777,
			ownerString(hdr),
			formatLocalTime(hdr.ModTime),
			digest,
			name,
		); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}
}
