package rules

// defaultKnownImports maps a name a script commonly uses without importing
// to the statement that brings it into scope.
var defaultKnownImports = map[string]string{
	// data stack
	"pd":  "import pandas as pd",
	"np":  "import numpy as np",
	"plt": "import matplotlib.pyplot as plt",
	"sns": "import seaborn as sns",

	// modules used under their own name
	"os":          "import os",
	"sys":         "import sys",
	"json":        "import json",
	"re":          "import re",
	"math":        "import math",
	"random":      "import random",
	"time":        "import time",
	"csv":         "import csv",
	"io":          "import io",
	"glob":        "import glob",
	"shutil":      "import shutil",
	"subprocess":  "import subprocess",
	"itertools":   "import itertools",
	"functools":   "import functools",
	"collections": "import collections",
	"string":      "import string",
	"hashlib":     "import hashlib",
	"base64":      "import base64",
	"pickle":      "import pickle",
	"copy":        "import copy",
	"logging":     "import logging",
	"argparse":    "import argparse",
	"tempfile":    "import tempfile",
	"uuid":        "import uuid",
	"statistics":  "import statistics",
	"textwrap":    "import textwrap",
	"operator":    "import operator",
	"heapq":       "import heapq",
	"bisect":      "import bisect",
	"struct":      "import struct",
	"threading":   "import threading",
	"asyncio":     "import asyncio",
	"sqlite3":     "import sqlite3",
	"platform":    "import platform",
	"requests":    "import requests",
	"yaml":        "import yaml",

	// names pulled out of modules
	"datetime":       "from datetime import datetime",
	"timedelta":      "from datetime import timedelta",
	"date":           "from datetime import date",
	"timezone":       "from datetime import timezone",
	"Path":           "from pathlib import Path",
	"defaultdict":    "from collections import defaultdict",
	"Counter":        "from collections import Counter",
	"deque":          "from collections import deque",
	"namedtuple":     "from collections import namedtuple",
	"OrderedDict":    "from collections import OrderedDict",
	"StringIO":       "from io import StringIO",
	"BytesIO":        "from io import BytesIO",
	"Decimal":        "from decimal import Decimal",
	"Fraction":       "from fractions import Fraction",
	"dataclass":      "from dataclasses import dataclass",
	"field":          "from dataclasses import field",
	"Enum":           "from enum import Enum",
	"partial":        "from functools import partial",
	"reduce":         "from functools import reduce",
	"lru_cache":      "from functools import lru_cache",
	"wraps":          "from functools import wraps",
	"ABC":            "from abc import ABC",
	"abstractmethod": "from abc import abstractmethod",
	"contextmanager": "from contextlib import contextmanager",
	"pprint":         "from pprint import pprint",
	"sleep":          "from time import sleep",
	"urlopen":        "from urllib.request import urlopen",
	"urlparse":       "from urllib.parse import urlparse",
	"List":           "from typing import List",
	"Dict":           "from typing import Dict",
	"Tuple":          "from typing import Tuple",
	"Set":            "from typing import Set",
	"Optional":       "from typing import Optional",
	"Union":          "from typing import Union",
	"Any":            "from typing import Any",
	"Callable":       "from typing import Callable",
	"Iterable":       "from typing import Iterable",
	"tqdm":           "from tqdm import tqdm",
	"BeautifulSoup":  "from bs4 import BeautifulSoup",
}
