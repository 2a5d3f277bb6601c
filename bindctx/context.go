// Package bindctx assembles the rendering context handed to templates.
package bindctx

import (
	"path"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/libnativeapi/bindgen/ir"
	"github.com/libnativeapi/bindgen/mapper"
	"github.com/libnativeapi/bindgen/naming"
)

// Context is the module-level rendering context.
type Context struct {
	// FilePaths are the module's source keys in lexicographic order.
	FilePaths []string

	// Files holds each mapped file by source key.
	Files map[string]*mapper.File

	// Per-kind concatenations across files, in file then item order.
	Items     []mapper.Item
	Structs   []*mapper.Struct
	Enums     []*mapper.Enum
	Functions []*mapper.Function
	Classes   []*mapper.Class
	Constants []*mapper.Constant
	Aliases   []*mapper.Alias

	// Mapping is the effective mapping configuration.
	Mapping mapper.Config

	Namer *naming.Transformer
	Raw   *ir.Module
}

// FileContext is the rendering context of one source file.
type FileContext struct {
	// Path is the source key, e.g. "include/window.h".
	Path string

	// Dir is the key's directory, "" at the top level. Keys outside the
	// project are absolute; their root and drive letter are dropped here so
	// outputs stay under the output directory.
	Dir string

	// Stem is the base name without extension.
	Stem string

	// OutputStem is Stem passed through the file naming rule.
	OutputStem string

	File      *mapper.File
	Items     []mapper.Item
	Structs   []*mapper.Struct
	Enums     []*mapper.Enum
	Functions []*mapper.Function
	Classes   []*mapper.Class
	Constants []*mapper.Constant
	Aliases   []*mapper.Alias

	Module *Context
}

// Build maps every file of module and assembles the module context.
// Mapping failures are wrapped with the failing file's key.
func Build(module *ir.Module, m *mapper.Mapper, namer *naming.Transformer) (*Context, error) {
	if m == nil {
		return nil, errors.New("bindctx: nil mapper")
	}
	if namer == nil {
		namer = m.Namer()
	}
	ctx := &Context{
		FilePaths: module.SortedPaths(),
		Files:     make(map[string]*mapper.File),
		Mapping:   m.Config(),
		Namer:     namer,
		Raw:       module,
	}
	if ctx.FilePaths == nil {
		ctx.FilePaths = []string{}
	}
	for _, p := range ctx.FilePaths {
		f, err := m.MapFile(module.File(p))
		if err != nil {
			return nil, errors.Wrapf(err, "%s", p)
		}
		ctx.Files[p] = f
		ctx.Items = append(ctx.Items, f.Items...)
		ctx.Structs = append(ctx.Structs, f.Structs()...)
		ctx.Enums = append(ctx.Enums, f.Enums()...)
		ctx.Functions = append(ctx.Functions, f.Functions()...)
		ctx.Classes = append(ctx.Classes, f.Classes()...)
		ctx.Constants = append(ctx.Constants, f.Constants()...)
		ctx.Aliases = append(ctx.Aliases, f.Aliases()...)
	}
	return ctx, nil
}

// ForFile returns the context of the file stored under key, or nil when the
// module has no such file.
func (c *Context) ForFile(key string) *FileContext {
	f, ok := c.Files[key]
	if !ok {
		return nil
	}
	dir, base := path.Split(key)
	stem := strings.TrimSuffix(base, path.Ext(base))
	return &FileContext{
		Path:       key,
		Dir:        relDir(dir),
		Stem:       stem,
		OutputStem: c.Namer.FileName(stem),
		File:       f,
		Items:      f.Items,
		Structs:    f.Structs(),
		Enums:      f.Enums(),
		Functions:  f.Functions(),
		Classes:    f.Classes(),
		Constants:  f.Constants(),
		Aliases:    f.Aliases(),
		Module:     c,
	}
}

func relDir(dir string) string {
	if len(dir) >= 2 && dir[1] == ':' && isDriveLetter(dir[0]) {
		dir = dir[2:]
	}
	return strings.Trim(dir, "/")
}

func isDriveLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// OutputPath joins the file's directory, its output stem and ext.
func (fc *FileContext) OutputPath(ext string) string {
	name := fc.OutputStem
	if ext != "" {
		name += "." + ext
	}
	if fc.Dir == "" {
		return name
	}
	return fc.Dir + "/" + name
}
