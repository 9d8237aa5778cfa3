package userconfig

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
)

func writeFile(c *qt.C, name, content string) string {
	c.Helper()
	path := filepath.Join(c.TempDir(), name)
	c.Assert(os.WriteFile(path, []byte(content), 0644), qt.IsNil)
	return path
}

func TestDefaults(t *testing.T) {
	c := qt.New(t)
	cfg, err := newInstance(filepath.Join(c.TempDir(), "missing"))
	c.Assert(err, qt.IsNil)
	c.Assert(cfg, qt.DeepEquals, &Config{
		Sort:         "size",
		Order:        "desc",
		ExportFormat: "json",
		VizUnits:     "human",
		SummaryTop:   10,
	})
}

func TestLoad_Layered(t *testing.T) {
	c := qt.New(t)
	low := writeFile(c, "low", `
sort = "name"
order = "asc"

[export]
format = "csv"
`)
	high := writeFile(c, "high", `
sort = "path"

[summary]
top = 3
`)
	cfg, err := newInstance(low, high)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg, qt.DeepEquals, &Config{
		Sort:         "path",
		Order:        "asc",
		ExportFormat: "csv",
		VizUnits:     "human",
		SummaryTop:   3,
	})
}

func TestLoad_Invalid(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		name    string
		content string
		err     string
	}{
		{"oneof", `order = "sideways"`, `invalid value for order: value "sideways" is not one of: asc or desc`},
		{"min", "[summary]\ntop = 0", `invalid value for summary.top: value 0 must be at least 1`},
		{"syntax", `sort = `, `(?s)unable to parse config file .*`},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			_, err := newInstance(writeFile(c, "config", tt.content))
			c.Assert(err, qt.ErrorMatches, tt.err)
		})
	}
}

func TestLoad_EnvPath(t *testing.T) {
	c := qt.New(t)
	c.Setenv("XDG_CONFIG_HOME", c.TempDir())
	path := writeFile(c, "extra.toml", `[viz]
units = "hex"
`)
	c.Setenv(EnvPath, path)

	paths := Paths()
	c.Assert(paths[len(paths)-1], qt.Equals, path)

	cfg, err := Load()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.VizUnits, qt.Equals, "hex")
}

func TestPaths_XDG(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()
	c.Setenv("XDG_CONFIG_HOME", dir)
	c.Setenv(EnvPath, "")
	c.Assert(Paths()[0], qt.Equals, filepath.Join(dir, "linkerland", "config"))
}

func TestSet(t *testing.T) {
	c := qt.New(t)
	c.Setenv("XDG_CONFIG_HOME", c.TempDir())
	dst := filepath.Join(c.TempDir(), "nested", "config")
	c.Setenv(EnvPath, dst)

	got, err := Set("summary.top", "25")
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, dst)
	_, err = Set("export.format", "csv")
	c.Assert(err, qt.IsNil)

	cfg, err := Load()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.SummaryTop, qt.Equals, 25)
	c.Assert(cfg.ExportFormat, qt.Equals, "csv")
	c.Assert(cfg.Sort, qt.Equals, "size")
}

func TestSet_Rejects(t *testing.T) {
	c := qt.New(t)
	c.Setenv(EnvPath, filepath.Join(c.TempDir(), "config"))

	_, err := Set("colour", "red")
	c.Assert(err, qt.ErrorMatches, `unknown key: "colour"`)
	_, err = Set("summary.top", "many")
	c.Assert(err, qt.ErrorMatches, `invalid value for summary.top: value "many" is not an integer`)
	_, err = Set("sort", "random")
	c.Assert(err, qt.ErrorMatches, `invalid value for sort: value "random" is not one of: size, name, or path`)
}

func TestGetByKey(t *testing.T) {
	c := qt.New(t)
	cfg := &Config{Sort: "name", SummaryTop: 4}
	v, ok := cfg.GetByKey("summary.top")
	c.Assert(ok, qt.IsTrue)
	c.Assert(v.String(), qt.Equals, "4")
	_, ok = cfg.GetByKey("nope")
	c.Assert(ok, qt.IsFalse)

	c.Assert(cfg.Render(), qt.Equals, "export.format: \norder: \nsort: name\nsummary.top: 4\nviz.units: \n")
}

func TestKeysAndDocs(t *testing.T) {
	c := qt.New(t)
	c.Assert(Keys(), qt.DeepEquals, []string{"export.format", "order", "sort", "summary.top", "viz.units"})
	c.Assert(Docs(), qt.Equals, ""+
		"  export.format (json or csv), default json\n"+
		"  order (asc or desc), default desc\n"+
		"  sort (size, name, or path), default size\n"+
		"  summary.top (an integer >= 1), default 10\n"+
		"  viz.units (human or hex), default human\n")

	typ, ok := GetType("summary.top")
	c.Assert(ok, qt.IsTrue)
	c.Assert(typ.Kind, qt.Equals, Int)
}
