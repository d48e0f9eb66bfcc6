package swiftpm

import "runtime"

// Platform is the host OS family. Only the families the helper treats differently get their own value.
type Platform int

const (
	PlatformOther Platform = iota
	PlatformDarwin
	PlatformLinux
	PlatformWindows
)

// PlatformFor maps a GOOS value to its platform family.
func PlatformFor(goos string) Platform {
	switch goos {
	case "darwin":
		return PlatformDarwin
	case "linux":
		return PlatformLinux
	case "windows":
		return PlatformWindows
	default:
		return PlatformOther
	}
}

// CurrentPlatform returns the family of the OS we're running on.
func CurrentPlatform() Platform {
	return PlatformFor(runtime.GOOS)
}

func (p Platform) String() string {
	switch p {
	case PlatformDarwin:
		return "Darwin"
	case PlatformLinux:
		return "Linux"
	case PlatformWindows:
		return "Windows"
	default:
		return "Other"
	}
}
