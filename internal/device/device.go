// Package device identifies the machine the client runs on. The id is sent
// with every API request so the backend can tell a user's devices apart.
package device

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/google/uuid"

	"sqrts/internal/session"
)

// KeyDeviceID is the store key holding the id once chosen.
const KeyDeviceID = "deviceId"

var ErrNoHardwareID = errors.New("no hardware id found")

// probe is replaced in tests.
var probe = hardwareIDs

// Fingerprint hashes the first hardware id so the raw serial never leaves the machine.
func Fingerprint() (string, error) {
	ids, err := probe()
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", ErrNoHardwareID
	}
	sum := sha256.Sum256([]byte(ids[0]))
	return hex.EncodeToString(sum[:16]), nil
}

// ID returns the device id kept in s. On first use it is derived from the
// hardware, or a random uuid when the hardware has nothing to offer, and stored.
func ID(s session.Store) (string, error) {
	if id, ok, err := s.GetItem(KeyDeviceID); err != nil {
		return "", err
	} else if ok && id != "" {
		return id, nil
	}
	id, err := Fingerprint()
	if err != nil {
		id = uuid.NewString()
	}
	if err := s.SetItem(KeyDeviceID, id); err != nil {
		return "", err
	}
	return id, nil
}

func hardwareIDs() ([]string, error) {
	switch runtime.GOOS {
	case "darwin":
		return macOSIDs()
	case "linux":
		return linuxIDs()
	case "windows":
		return windowsIDs()
	default:
		return nil, errors.New("unsupported platform: " + runtime.GOOS)
	}
}

func macOSIDs() ([]string, error) {
	out, err := exec.Command("ioreg", "-rd1", "-c", "IOPlatformExpertDevice").Output()
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, "IOPlatformUUID") {
			continue
		}
		if parts := strings.Split(line, "\""); len(parts) >= 4 {
			ids = append(ids, parts[3])
		}
	}
	if len(ids) == 0 {
		return nil, ErrNoHardwareID
	}
	return ids, nil
}

// linuxIDs tries the DMI product uuid, then the systemd machine id, then the
// cpu serial that ARM boards expose.
func linuxIDs() ([]string, error) {
	for _, path := range []string{"/sys/class/dmi/id/product_uuid", "/etc/machine-id"} {
		if b, err := os.ReadFile(path); err == nil {
			if id := strings.TrimSpace(string(b)); id != "" {
				return []string{id}, nil
			}
		}
	}
	if cpuinfo, err := os.ReadFile("/proc/cpuinfo"); err == nil {
		for _, line := range strings.Split(string(cpuinfo), "\n") {
			if !strings.HasPrefix(line, "Serial") {
				continue
			}
			if _, v, ok := strings.Cut(line, ":"); ok {
				if id := strings.TrimSpace(v); id != "" {
					return []string{id}, nil
				}
			}
		}
	}
	return nil, ErrNoHardwareID
}

func windowsIDs() ([]string, error) {
	for _, args := range [][]string{{"csproduct", "get", "UUID"}, {"cpu", "get", "ProcessorId"}} {
		out, err := exec.Command("wmic", args...).Output()
		if err != nil {
			continue
		}
		header := args[len(args)-1]
		for _, line := range bytes.Split(out, []byte("\n")) {
			s := strings.TrimSpace(string(line))
			if s != "" && !strings.EqualFold(s, header) {
				return []string{s}, nil
			}
		}
	}
	return nil, ErrNoHardwareID
}
