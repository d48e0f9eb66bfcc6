package swiftpm

import (
	"io/ioutil"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Profile holds the names that are specific to the package being built. The defaults describe
// sourcekit-lsp; a YAML file can override any of them.
type Profile struct {
	// Name is only used in log output.
	Name string `yaml:"name"`
	// Products are built in order by the build action.
	Products []string `yaml:"products"`
	// TestProduct is passed to `swift test --test-product`.
	TestProduct string `yaml:"testProduct"`
	// TestArtifacts is removed from the bin path before running tests.
	TestArtifacts string `yaml:"testArtifacts"`
	// Executable is copied into every install prefix.
	Executable string `yaml:"executable"`
	// UBSanSuppressions is relative to the package path.
	UBSanSuppressions string `yaml:"ubsanSuppressions"`
	// ToolchainEnv lists the variables pointing the test runtime at the toolchain.
	ToolchainEnv []string `yaml:"toolchainEnv"`
	// LongTestsEnv is set to 1 for test runs unless --skip-long-tests was passed.
	LongTestsEnv string `yaml:"longTestsEnv"`
}

// DefaultProfile returns the sourcekit-lsp profile.
func DefaultProfile() *Profile {
	return &Profile{
		Name: "sourcekit-lsp",
		// SourceKitLSPPackageTests builds all the source code, _SourceKitLSP (dylib) and sourcekit-lsp
		// (executable) are products that can be used from the build.
		Products:          []string{"SourceKitLSPPackageTests", "_SourceKitLSP", "sourcekit-lsp"},
		TestProduct:       "SourceKitLSPPackageTests",
		TestArtifacts:     "sk-tests",
		Executable:        "sourcekit-lsp",
		UBSanSuppressions: "Utilities/ubsan_supressions.supp",
		ToolchainEnv:      []string{"SOURCEKIT_TOOLCHAIN_PATH", "INDEXSTOREDB_TOOLCHAIN_BIN_PATH"},
		LongTestsEnv:      "SOURCEKIT_LSP_ENABLE_LONG_TESTS",
	}
}

// LoadProfile reads a YAML profile. Keys missing from the file keep their default value.
func LoadProfile(path string) (*Profile, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "Could not open file %s", path)
	}

	profile := DefaultProfile()
	err = yaml.Unmarshal(data, profile)
	if err != nil {
		return nil, eris.Wrapf(err, "Failed to parse %s", path)
	}

	if err = profile.validate(); err != nil {
		return nil, eris.Wrapf(err, "Invalid profile %s", path)
	}

	return profile, nil
}

func (p *Profile) validate() error {
	if len(p.Products) == 0 {
		return configErrorf("profile doesn't list any products")
	}

	if p.TestProduct == "" {
		return configErrorf("profile is missing testProduct")
	}

	if p.Executable == "" {
		return configErrorf("profile is missing executable")
	}

	return nil
}
