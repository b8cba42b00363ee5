package config

import (
	"os"
	"sync"
)

// dockerEnvFile exists in every Docker container.
const dockerEnvFile = "/.dockerenv"

// inDocker is replaced in tests.
var inDocker = sync.OnceValue(func() bool {
	_, err := os.Stat(dockerEnvFile)
	return err == nil
})

// IsRunningInDocker reports whether chemmd-engine runs inside a Docker container.
// The result is cached after the first call.
func IsRunningInDocker() bool {
	return inDocker()
}

// ResolveBindAddrForDocker returns the address the server should listen on.
// A loopback bind address is unreachable through published container ports,
// so inside Docker "localhost" and "127.0.0.1" become "0.0.0.0".
func ResolveBindAddrForDocker(addr string) string {
	switch {
	case !IsRunningInDocker():
		return addr
	case addr == "localhost", addr == "127.0.0.1":
		return "0.0.0.0"
	default:
		return addr
	}
}
