package units

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/engcalc/foundation/core/error"
)

// DefinitionFile is the YAML layout of extra unit definitions:
//
//	definitions:
//	  - "tsf = 2000 * pound_force / foot ** 2 = tsf"
//	  - "kN_m = kilonewton * meter"
type DefinitionFile struct {
	Definitions []string `yaml:"definitions"`
}

// LoadDefinitions reads a YAML definition file and defines every entry in
// reg. Definitions already present with the same meaning are skipped.
func LoadDefinitions(reg *Registry, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return mdwerror.Wrap(err, "open unit definitions").
			WithCode(mdwerror.CodeConfigError).
			WithDetail("path", path)
	}
	defer f.Close()

	if err := ReadDefinitions(reg, f); err != nil {
		return mdwerror.Wrap(err, "load unit definitions").WithDetail("path", path)
	}
	return nil
}

// ReadDefinitions decodes a DefinitionFile from r and defines its entries.
// It stops at the first failing definition.
func ReadDefinitions(reg *Registry, r io.Reader) error {
	var file DefinitionFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return mdwerror.Wrap(err, "decode unit definitions").WithCode(mdwerror.CodeConfigError)
	}
	for i, line := range file.Definitions {
		if err := reg.Define(line); err != nil {
			return mdwerror.Wrap(err, fmt.Sprintf("definition %d", i+1)).
				WithDetail("definition", line)
		}
	}
	return nil
}
