// Package archive implements the .mar container format (§4.7/§6): a
// standard zip wrapping langspec.json, per-asset icon members, and
// optional LICENSE/NOTICE text, read and written with the standard
// library's archive/zip — the one place this module falls back to the
// standard library, since none of the repos this codebase draws on
// import a third-party zip implementation.
package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"

	langspec "github.com/mal-lang/mal-langspec"
	"github.com/mal-lang/mal-langspec/errors"
	"github.com/mal-lang/mal-langspec/identifier"
	"github.com/mal-lang/mal-langspec/jsoncodec"
)

const (
	langSpecMember  = "langspec.json"
	iconsDir        = "icons/"
	licenseMember   = "LICENSE"
	noticeMember    = "NOTICE"
	svgSuffix       = ".svg"
	pngSuffix       = ".png"
)

// Read parses a .mar archive from data into a fully resolved Lang.
// Member recognition follows §4.7: langspec.json is required, icon
// members whose base name is not a valid identifier are ignored, and
// every other unrecognized member is ignored. Equivalent to
// ReadWithOptions(data).
func Read(data []byte) (*langspec.Lang, error) {
	return ReadWithOptions(data)
}

// ReadWithOptions reads data the way Read does, additionally applying
// opts: MaxIcons caps the total number of SVG/PNG icon members decoded
// before failing, and the Decode/Build stages the document goes through
// receive the same opts (Logger, StrictSchema).
func ReadWithOptions(data []byte, opts ...langspec.Option) (*langspec.Lang, error) {
	o := langspec.ApplyOptions(opts...)
	log := o.EffectiveLogger()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(errors.IO, "", err)
	}

	var langSpecData []byte
	var license, notice string
	var hasLicense, hasNotice bool
	svgIcons := map[string][]byte{}
	pngIcons := map[string][]byte{}
	iconCount := 0

	for _, f := range zr.File {
		switch {
		case f.Name == langSpecMember:
			langSpecData, err = readZipFile(f)
			if err != nil {
				return nil, err
			}
		case f.Name == licenseMember:
			b, err := readZipFile(f)
			if err != nil {
				return nil, err
			}
			license, hasLicense = string(b), true
		case f.Name == noticeMember:
			b, err := readZipFile(f)
			if err != nil {
				return nil, err
			}
			notice, hasNotice = string(b), true
		case strings.HasPrefix(f.Name, iconsDir) && strings.HasSuffix(f.Name, svgSuffix):
			name := strings.TrimSuffix(strings.TrimPrefix(f.Name, iconsDir), svgSuffix)
			if !identifier.Is(name) {
				continue
			}
			if o.MaxIcons > 0 && iconCount >= o.MaxIcons {
				return nil, errors.New(errors.IO, f.Name, "archive exceeds configured icon limit")
			}
			iconCount++
			b, err := readZipFile(f)
			if err != nil {
				return nil, err
			}
			svgIcons[name] = b
		case strings.HasPrefix(f.Name, iconsDir) && strings.HasSuffix(f.Name, pngSuffix):
			name := strings.TrimSuffix(strings.TrimPrefix(f.Name, iconsDir), pngSuffix)
			if !identifier.Is(name) {
				continue
			}
			if o.MaxIcons > 0 && iconCount >= o.MaxIcons {
				return nil, errors.New(errors.IO, f.Name, "archive exceeds configured icon limit")
			}
			iconCount++
			b, err := readZipFile(f)
			if err != nil {
				return nil, err
			}
			pngIcons[name] = b
		}
		// every other member is ignored.
	}

	if langSpecData == nil {
		return nil, errors.New(errors.ArchiveMissingLangSpec, langSpecMember, "archive has no langspec.json member")
	}

	builder, err := jsoncodec.DecodeWithOptions(langSpecData, opts...)
	if err != nil {
		return nil, err
	}

	for name, b := range svgIcons {
		if ab, ok := builder.AssetBuilder(name); ok {
			ab.SvgIcon = b
		}
	}
	for name, b := range pngIcons {
		if ab, ok := builder.AssetBuilder(name); ok {
			ab.PngIcon = b
		}
	}
	if hasLicense {
		builder.SetLicense(license)
	}
	if hasNotice {
		builder.SetNotice(notice)
	}

	log.Debug("archive.read", "members", len(zr.File), "svgIcons", len(svgIcons), "pngIcons", len(pngIcons), "hasLicense", hasLicense, "hasNotice", hasNotice)
	return builder.BuildWithOptions(opts...)
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrap(errors.IO, f.Name, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrap(errors.IO, f.Name, err)
	}
	return b, nil
}

// Write serializes lang as a .mar archive: langspec.json, an explicit
// icons/ directory entry, each asset's local (never inherited) SVG/PNG
// icons in asset-declaration order, then LICENSE and NOTICE if present.
// Equivalent to WriteWithOptions(w, lang).
func Write(w io.Writer, lang *langspec.Lang) error {
	return WriteWithOptions(w, lang)
}

// WriteWithOptions writes lang the way Write does, additionally
// emitting an "archive.write" debug event to opts' Logger once the
// archive is closed.
func WriteWithOptions(w io.Writer, lang *langspec.Lang, opts ...langspec.Option) error {
	o := langspec.ApplyOptions(opts...)
	zw := zip.NewWriter(w)
	iconCount := 0

	langSpecData, err := jsoncodec.Encode(lang)
	if err != nil {
		return err
	}
	if err := writeZipEntry(zw, langSpecMember, langSpecData); err != nil {
		return err
	}
	if _, err := zw.Create(iconsDir); err != nil {
		return errors.Wrap(errors.IO, iconsDir, err)
	}

	for _, a := range lang.Assets() {
		if svg := a.LocalSvgIcon(); svg != nil {
			if err := writeZipEntry(zw, iconsDir+a.Name()+svgSuffix, svg); err != nil {
				return err
			}
			iconCount++
		}
		if png := a.LocalPngIcon(); png != nil {
			if err := writeZipEntry(zw, iconsDir+a.Name()+pngSuffix, png); err != nil {
				return err
			}
			iconCount++
		}
	}

	if license, ok := lang.License(); ok {
		if err := writeZipEntry(zw, licenseMember, []byte(license)); err != nil {
			return err
		}
	}
	if notice, ok := lang.Notice(); ok {
		if err := writeZipEntry(zw, noticeMember, []byte(notice)); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return errors.Wrap(errors.IO, "", err)
	}
	o.EffectiveLogger().Debug("archive.write", "assets", len(lang.Assets()), "icons", iconCount)
	return nil
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return errors.Wrap(errors.IO, name, err)
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(errors.IO, name, err)
	}
	return nil
}
