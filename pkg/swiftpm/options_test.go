package swiftpm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Linux(t *testing.T) {
	runner := newFakeRunner()
	o := newTestOrchestrator(t, runner, PlatformLinux)
	cfg := testConfig(ActionBuild)
	cfg.Verbose = true
	cfg.Sanitizers = []Sanitizer{SanitizerAddress, SanitizerThread}

	opts, err := o.Assembler.Options(testContext(), cfg)
	require.NoError(t, err)

	require.Equal(t, []string{
		"--package-path", "/src/sourcekit-lsp",
		"--build-path", "/src/sourcekit-lsp/.build",
		"--configuration", "debug",
		"--verbose",
		"--sanitize=address",
		"--sanitize=thread",
		"-Xcxx", "-I", "-Xcxx", "/toolchain/usr/lib/swift",
		"-Xcxx", "-I", "-Xcxx", "/toolchain/usr/lib/swift/Block",
		"-Xlinker", "-rpath", "-Xlinker", "$ORIGIN/../lib/swift/linux",
	}, opts)

	require.Len(t, runner.invocations("/toolchain/usr/bin/swift", "-print-target-info"), 1)
}

func TestOptions_Darwin(t *testing.T) {
	runner := newFakeRunner()
	runner.targetInfo = targetInfoJSON(darwinTriple, DarwinFallbackTriple)
	o := newTestOrchestrator(t, runner, PlatformDarwin)

	opts, err := o.Assembler.Options(testContext(), testConfig(ActionBuild))
	require.NoError(t, err)

	assert.True(t, containsSequence(opts, "-Xlinker", "-rpath", "-Xlinker", "@executable_path/../lib/swift/macosx"))
	assert.NotContains(t, opts, "-Xcxx")
	assert.NotContains(t, opts, "$ORIGIN/../lib/swift/linux")
}

func TestOptions_AndroidEnvironment(t *testing.T) {
	runner := newFakeRunner()
	o := newTestOrchestrator(t, runner, PlatformLinux)
	o.Assembler.LookupEnv = func(name string) (string, bool) {
		if name == "ANDROID_DATA" {
			return "/data", true
		}
		return "", false
	}

	opts, err := o.Assembler.Options(testContext(), testConfig(ActionBuild))
	require.NoError(t, err)

	assert.True(t, containsSequence(opts, "-Xlinker", "-rpath", "-Xlinker", "$ORIGIN/../lib/swift/android"))
	assert.True(t, containsSequence(opts, "-Xswiftc", "-Xcc", "-Xswiftc", "-U_GNU_SOURCE"))
	assert.NotContains(t, opts, "$ORIGIN/../lib/swift/linux")
}

func TestOptions_CrossCompileMacArm64(t *testing.T) {
	runner := newFakeRunner()
	runner.targetInfo = targetInfoJSON(darwinTriple, "x86_64-apple-macosx")
	o := newTestOrchestrator(t, runner, PlatformDarwin)
	cfg := testConfig(ActionBuild)
	cfg.CrossCompileHost = "macosx-arm64"

	opts, err := o.Assembler.Options(testContext(), cfg)
	require.NoError(t, err)
	assert.True(t, containsSequence(opts, "--arch", "x86_64", "--arch", "arm64"))
}

func TestOptions_CrossCompileArm64NeedsIntelHost(t *testing.T) {
	runner := newFakeRunner()
	runner.targetInfo = targetInfoJSON("arm64-apple-macosx11.0", "arm64-apple-macosx")
	o := newTestOrchestrator(t, runner, PlatformDarwin)
	cfg := testConfig(ActionBuild)
	cfg.CrossCompileHost = "macosx-arm64"

	_, err := o.Assembler.Options(testContext(), cfg)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "cannot cross-compile for macosx-arm64")
}

func TestOptions_CrossCompileAndroid(t *testing.T) {
	runner := newFakeRunner()
	o := newTestOrchestrator(t, runner, PlatformLinux)
	cfg := testConfig(ActionBuild)
	cfg.CrossCompileHost = "android-aarch64"
	cfg.CrossCompileConfig = "/src/android-aarch64.json"

	opts, err := o.Assembler.Options(testContext(), cfg)
	require.NoError(t, err)

	assert.True(t, containsSequence(opts, "--destination", "/src/android-aarch64.json"))
	assert.True(t, containsSequence(opts, "-Xlinker", "-rpath", "-Xlinker", "$ORIGIN/../lib/swift/android"))
	assert.NotContains(t, opts, "--arch")
}

func TestOptions_CrossCompileAndroidRequiresConfig(t *testing.T) {
	o := newTestOrchestrator(t, newFakeRunner(), PlatformLinux)
	cfg := testConfig(ActionBuild)
	cfg.CrossCompileHost = "android-armv7"

	_, err := o.Assembler.Options(testContext(), cfg)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestOptions_CrossCompileUnsupportedHost(t *testing.T) {
	runner := newFakeRunner()
	o := newTestOrchestrator(t, runner, PlatformLinux)
	cfg := testConfig(ActionBuild)
	cfg.CrossCompileHost = "windows-x86_64"

	err := o.Dispatch(testContext(), cfg)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "cannot cross-compile for windows-x86_64")

	// only the target query ran, the build tool was never invoked
	assert.Empty(t, runner.invocations("/toolchain/usr/bin/swift", "build"))
	assert.Len(t, runner.commands, 1)
}

func TestOptions_TargetQueryFailsOnLinux(t *testing.T) {
	runner := newFakeRunner()
	runner.targetInfo = ""
	o := newTestOrchestrator(t, runner, PlatformLinux)

	_, err := o.Assembler.Options(testContext(), testConfig(ActionBuild))
	require.Error(t, err)
	assert.True(t, IsCommandError(err))
}

func TestEnvironment(t *testing.T) {
	o := newTestOrchestrator(t, newFakeRunner(), PlatformLinux)
	cfg := testConfig(ActionTest)
	cfg.NinjaBin = "/usr/bin/ninja"
	cfg.Sanitizers = []Sanitizer{SanitizerAddress, SanitizerUndefined, SanitizerThread}

	env := o.Assembler.Environment(cfg)
	assert.Equal(t, map[string]string{
		"SOURCEKIT_TOOLCHAIN_PATH":        "/toolchain/usr",
		"INDEXSTOREDB_TOOLCHAIN_BIN_PATH": "/toolchain/usr",
		"SWIFTCI_USE_LOCAL_DEPS":          "1",
		"NINJA_BIN":                       "/usr/bin/ninja",
		"ASAN_OPTIONS":                    "detect_leaks=false",
		"UBSAN_OPTIONS":                   "halt_on_error=true,suppressions=/src/sourcekit-lsp/Utilities/ubsan_supressions.supp",
		"TSAN_OPTIONS":                    "halt_on_error=true",
		"SOURCEKIT_LSP_ENABLE_LONG_TESTS": "1",
		"SWIFT_EXEC":                      "/toolchain/usr/bin/swiftc",
	}, env)
}

func TestEnvironment_Minimal(t *testing.T) {
	o := newTestOrchestrator(t, newFakeRunner(), PlatformLinux)

	cfg := testConfig(ActionTest)
	cfg.NoLocalDeps = true
	cfg.SkipLongTests = true

	env := o.Assembler.Environment(cfg)
	assert.NotContains(t, env, "SWIFTCI_USE_LOCAL_DEPS")
	assert.NotContains(t, env, "SOURCEKIT_LSP_ENABLE_LONG_TESTS")
	assert.NotContains(t, env, "NINJA_BIN")
	assert.NotContains(t, env, "ASAN_OPTIONS")
	assert.Equal(t, "/toolchain/usr/bin/swiftc", env["SWIFT_EXEC"])

	// long tests are only enabled for the test action
	env = o.Assembler.Environment(testConfig(ActionBuild))
	assert.NotContains(t, env, "SOURCEKIT_LSP_ENABLE_LONG_TESTS")
	assert.Equal(t, "1", env["SWIFTCI_USE_LOCAL_DEPS"])
}
