package scanner

import (
	"strings"
	"sync"
)

// DefaultPythonVersion is assumed when the caller does not select a
// runtime version.
const DefaultPythonVersion = "3.12"

// StdlibRegistry is the set of modules bundled with a specific CPython
// runtime. Registries are built once per version and shared read-only
// across workers.
type StdlibRegistry struct {
	version string
	modules map[string]struct{}
}

// baseModules is the CPython 3.8 top-level module set; later versions
// apply the add/remove deltas below.
var baseModules = strings.Fields(`
__future__ __main__ _thread abc aifc antigravity argparse array ast
asynchat asyncio asyncore atexit audioop base64 bdb binascii binhex
bisect builtins bz2 cProfile calendar cgi cgitb chunk cmath cmd code
codecs codeop collections colorsys compileall concurrent configparser
contextlib contextvars copy copyreg crypt csv ctypes curses dataclasses
datetime dbm decimal difflib dis distutils doctest dummy_threading email
encodings ensurepip enum errno faulthandler fcntl filecmp fileinput
fnmatch formatter fractions ftplib functools gc getopt getpass gettext
glob grp gzip hashlib heapq hmac html http idlelib imaplib imghdr imp
importlib inspect io ipaddress itertools json keyword lib2to3 linecache
locale logging lzma mailbox mailcap marshal math mimetypes mmap
modulefinder msilib msvcrt multiprocessing netrc nis nntplib ntpath
numbers operator optparse os ossaudiodev parser pathlib pdb pickle
pickletools pipes pkgutil platform plistlib poplib posix posixpath
pprint profile pstats pty pwd py_compile pyclbr pydoc queue quopri
random re readline reprlib resource rlcompleter runpy sched secrets
select selectors shelve shlex shutil signal site smtpd smtplib sndhdr
socket socketserver spwd sqlite3 ssl stat statistics string stringprep
struct subprocess sunau symbol symtable sys sysconfig syslog tabnanny
tarfile telnetlib tempfile termios test textwrap this threading time
timeit tkinter token tokenize trace traceback tracemalloc tty turtle
turtledemo types typing unicodedata unittest urllib uu uuid venv
warnings wave weakref webbrowser winreg winsound wsgiref xdrlib xml
xmlrpc zipapp zipfile zipimport zlib
`)

// versionAdded and versionRemoved track stdlib changes per minor
// version; deltas accumulate from 3.8 upward.
var versionAdded = map[string][]string{
	"3.9":  {"graphlib", "zoneinfo"},
	"3.11": {"tomllib"},
}

var versionRemoved = map[string][]string{
	"3.9":  {"dummy_threading"},
	"3.10": {"formatter", "parser", "symbol"},
	"3.11": {"binhex"},
	"3.12": {"asynchat", "asyncore", "distutils", "imp", "smtpd"},
	"3.13": {
		"aifc", "audioop", "cgi", "cgitb", "chunk", "crypt", "imghdr",
		"mailcap", "msilib", "nis", "nntplib", "ossaudiodev", "pipes",
		"sndhdr", "spwd", "sunau", "telnetlib", "uu", "xdrlib",
	},
}

// minorVersions orders the supported runtimes for delta accumulation.
var minorVersions = []string{"3.8", "3.9", "3.10", "3.11", "3.12", "3.13"}

var registries sync.Map // minor version -> *StdlibRegistry

// StdlibFor returns the registry for the given runtime version
// ("3.11" or a full "3.11.7"). Unknown or empty versions fall back to
// DefaultPythonVersion; versions newer than the catalog use the newest
// known set.
func StdlibFor(version string) *StdlibRegistry {
	minor := minorVersion(version)
	if cached, ok := registries.Load(minor); ok {
		return cached.(*StdlibRegistry)
	}

	modules := make(map[string]struct{}, len(baseModules))
	for _, m := range baseModules {
		modules[m] = struct{}{}
	}
	for _, v := range minorVersions {
		if compareMinor(v, "3.8") > 0 {
			for _, m := range versionAdded[v] {
				modules[m] = struct{}{}
			}
			for _, m := range versionRemoved[v] {
				delete(modules, m)
			}
		}
		if v == minor {
			break
		}
	}

	reg := &StdlibRegistry{version: minor, modules: modules}
	cached, _ := registries.LoadOrStore(minor, reg)
	return cached.(*StdlibRegistry)
}

// Contains reports whether the top-level module ships with this runtime.
func (r *StdlibRegistry) Contains(module string) bool {
	_, ok := r.modules[module]
	return ok
}

// Version returns the minor runtime version this registry describes.
func (r *StdlibRegistry) Version() string {
	return r.version
}

// minorVersion reduces "3.11.7" to "3.11" and normalizes unknown input
// to the nearest supported version.
func minorVersion(version string) string {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) >= 2 {
		minor := parts[0] + "." + parts[1]
		for _, v := range minorVersions {
			if v == minor {
				return minor
			}
		}
		// Newer than the catalog: use the newest known set.
		if parts[0] == "3" && compareMinor(minor, minorVersions[len(minorVersions)-1]) > 0 {
			return minorVersions[len(minorVersions)-1]
		}
	}
	return DefaultPythonVersion
}

// compareMinor compares two "3.N" version strings numerically.
func compareMinor(a, b string) int {
	an := minorNumber(a)
	bn := minorNumber(b)
	switch {
	case an < bn:
		return -1
	case an > bn:
		return 1
	default:
		return 0
	}
}

func minorNumber(v string) int {
	_, after, found := strings.Cut(v, ".")
	if !found {
		return 0
	}
	n := 0
	for _, ch := range after {
		if ch < '0' || ch > '9' {
			break
		}
		n = n*10 + int(ch-'0')
	}
	return n
}
