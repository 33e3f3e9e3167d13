package scanner

// aliasTable maps import module names to the PyPI distribution that
// provides them, for the common cases where the two differ. Names not
// listed here resolve by identity; the installer reports a clear error
// if that guess is wrong.
var aliasTable = map[string]string{
	"yaml":             "PyYAML",
	"PIL":              "Pillow",
	"bs4":              "beautifulsoup4",
	"sklearn":          "scikit-learn",
	"cv2":              "opencv-python",
	"dateutil":         "python-dateutil",
	"dotenv":           "python-dotenv",
	"Crypto":           "pycryptodome",
	"OpenSSL":          "pyOpenSSL",
	"jose":             "python-jose",
	"magic":            "python-magic",
	"fitz":             "PyMuPDF",
	"docx":             "python-docx",
	"pptx":             "python-pptx",
	"win32com":         "pywin32",
	"win32api":         "pywin32",
	"serial":           "pyserial",
	"usb":              "pyusb",
	"psycopg2":         "psycopg2-binary",
	"MySQLdb":          "mysqlclient",
	"cairosvg":         "CairoSVG",
	"gi":               "PyGObject",
	"lxml":             "lxml",
	"attr":             "attrs",
	"pkg_resources":    "setuptools",
	"setuptools":       "setuptools",
	"google":           "protobuf",
	"github":           "PyGithub",
	"jwt":              "PyJWT",
	"websockets":       "websockets",
	"zmq":              "pyzmq",
	"redis":            "redis",
	"kafka":            "kafka-python",
	"flask_sqlalchemy": "Flask-SQLAlchemy",
	"flask_cors":       "Flask-Cors",
	"flask_login":      "Flask-Login",
}

// LookupAlias returns the distribution name mapped to an import module
// name, if the alias table knows about it.
func LookupAlias(module string) (string, bool) {
	name, ok := aliasTable[module]
	return name, ok
}
