package monitor

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// networkFilesystems are mount types where inotify style events are unreliable
var networkFilesystems = map[string]bool{
	"nfs":        true,
	"nfs4":       true,
	"cifs":       true,
	"smbfs":      true,
	"smb3":       true,
	"9p":         true,
	"afs":        true,
	"ceph":       true,
	"glusterfs":  true,
	"fuse.sshfs": true,
	"davfs":      true,
}

// IsNetworkPath reports whether path is a UNC path or lives on a network mount.
// Detection failures count as local.
func IsNetworkPath(path string) bool {
	if strings.HasPrefix(path, `\\`) || strings.HasPrefix(path, "//") {
		return true
	}
	if runtime.GOOS != "linux" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	f, err := os.Open("/proc/self/mounts")
	if err != nil {
		return false
	}
	defer f.Close()
	return onNetworkMount(abs, bufio.NewScanner(f))
}

func onNetworkMount(abs string, sc *bufio.Scanner) bool {
	best := ""
	network := false
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}
		mount := unescapeMount(fields[1])
		if !within(abs, mount) || len(mount) < len(best) {
			continue
		}
		best = mount
		network = networkFilesystems[fields[2]]
	}
	return network
}

func within(path, mount string) bool {
	if mount == "/" {
		return true
	}
	return path == mount || strings.HasPrefix(path, mount+"/")
}

// unescapeMount decodes the octal escapes used in /proc/self/mounts
func unescapeMount(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	r := strings.NewReplacer(`\040`, " ", `\011`, "\t", `\012`, "\n", `\134`, `\`)
	return r.Replace(s)
}
