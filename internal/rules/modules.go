package rules

// stdlibModules — top-level имена sys.stdlib_module_names (CPython 3.12),
// без приватных модулей с подчёркиванием.
var stdlibModules = []string{
	"__future__", "abc", "aifc", "argparse", "array", "ast", "asynchat", "asyncio",
	"asyncore", "atexit", "audioop", "base64", "bdb", "binascii", "bisect",
	"builtins", "bz2", "cProfile", "calendar", "cgi", "cgitb", "chunk", "cmath",
	"cmd", "code", "codecs", "codeop", "collections", "colorsys", "compileall",
	"concurrent", "configparser", "contextlib", "contextvars", "copy", "copyreg",
	"crypt", "csv", "ctypes", "curses", "dataclasses", "datetime", "dbm",
	"decimal", "difflib", "dis", "doctest", "email", "encodings", "ensurepip",
	"enum", "errno", "faulthandler", "fcntl", "filecmp", "fileinput", "fnmatch",
	"fractions", "ftplib", "functools", "gc", "genericpath", "getopt", "getpass",
	"gettext", "glob", "graphlib", "grp", "gzip", "hashlib", "heapq", "hmac",
	"html", "http", "idlelib", "imaplib", "imghdr", "importlib", "inspect", "io",
	"ipaddress", "itertools", "json", "keyword", "lib2to3", "linecache", "locale",
	"logging", "lzma", "mailbox", "mailcap", "marshal", "math", "mimetypes",
	"mmap", "modulefinder", "msvcrt", "multiprocessing", "netrc", "nis",
	"nntplib", "ntpath", "numbers", "opcode", "operator", "optparse", "os",
	"ossaudiodev", "pathlib", "pdb", "pickle", "pickletools", "pipes", "pkgutil",
	"platform", "plistlib", "poplib", "posix", "posixpath", "pprint", "profile",
	"pstats", "pty", "pwd", "py_compile", "pyclbr", "pydoc", "queue", "quopri",
	"random", "re", "readline", "reprlib", "resource", "rlcompleter", "runpy",
	"sched", "secrets", "select", "selectors", "shelve", "shlex", "shutil",
	"signal", "site", "smtplib", "sndhdr", "socket", "socketserver", "spwd",
	"sqlite3", "sre_compile", "sre_constants", "sre_parse", "ssl", "stat",
	"statistics", "string", "stringprep", "struct", "subprocess", "sunau",
	"symtable", "sys", "sysconfig", "syslog", "tabnanny", "tarfile", "telnetlib",
	"tempfile", "termios", "textwrap", "this", "threading", "time", "timeit",
	"tkinter", "token", "tokenize", "tomllib", "trace", "traceback",
	"tracemalloc", "tty", "turtle", "types", "typing", "unicodedata", "unittest",
	"urllib", "uu", "uuid", "venv", "warnings", "wave", "weakref", "webbrowser",
	"winreg", "winsound", "wsgiref", "xdrlib", "xml", "xmlrpc", "zipapp",
	"zipfile", "zipimport", "zlib", "zoneinfo",
}

// defaultCommonModules — сторонние пакеты, которые считаются предустановленными
// в песочнице (import-имена, не имена дистрибутивов).
var defaultCommonModules = []string{
	"numpy", "pandas", "matplotlib", "seaborn", "scipy", "requests", "yaml",
	"bs4", "lxml", "PIL", "openpyxl", "xlrd", "tqdm", "dateutil", "pytz",
	"sklearn", "plotly", "statsmodels", "sympy", "networkx", "tabulate",
	"jinja2", "chardet", "certifi", "urllib3", "idna", "six", "attr", "attrs",
	"click", "rich", "pydantic", "httpx", "aiohttp", "regex", "toml", "docx",
	"pptx", "markdown", "reportlab", "pypdf", "PyPDF2", "faker", "psutil",
}

// defaultRiskyModules — тяжёлые или серверные пакеты, которых в песочнице
// обычно нет, со стандартной альтернативой для подсказки.
var defaultRiskyModules = map[string]string{
	"flask":        "http.server",
	"django":       "http.server",
	"fastapi":      "http.server",
	"uvicorn":      "http.server",
	"tornado":      "http.server",
	"gunicorn":     "http.server",
	"sqlalchemy":   "sqlite3",
	"psycopg2":     "sqlite3",
	"pymysql":      "sqlite3",
	"pymongo":      "sqlite3 or json files",
	"redis":        "a dict or shelve",
	"selenium":     "urllib.request and html.parser",
	"scrapy":       "urllib.request and html.parser",
	"playwright":   "urllib.request and html.parser",
	"torch":        "math and statistics",
	"tensorflow":   "math and statistics",
	"keras":        "math and statistics",
	"jax":          "math and statistics",
	"transformers": "plain string processing",
	"cv2":          "PIL",
	"boto3":        "urllib.request",
	"pyspark":      "csv and collections",
	"celery":       "concurrent.futures",
	"kafka":        "queue",
}
