package autoexclude

import "github.com/harrison/treescout/internal/exclusion"

// baselineProvider covers VCS and IDE junk present in any checkout,
// regardless of ecosystem.
func baselineProvider() Provider {
	return Provider{
		Name: "vcs-and-ide",
		Patterns: []exclusion.Pattern{
			exclusion.Glob(".git", exclusion.ScopeDir),
			exclusion.Glob(".svn", exclusion.ScopeDir),
			exclusion.Glob(".hg", exclusion.ScopeDir),
			exclusion.Glob(".vs", exclusion.ScopeDir),
			exclusion.Glob(".idea", exclusion.ScopeDir),
			exclusion.Glob(".vscode", exclusion.ScopeDir),
			exclusion.Glob(".DS_Store", exclusion.ScopeFile),
			exclusion.Glob("Thumbs.db", exclusion.ScopeFile),
			exclusion.Glob("*.swp", exclusion.ScopeFile),
		},
	}
}

func pythonProvider() Provider {
	return Provider{
		Name: "python",
		Patterns: []exclusion.Pattern{
			exclusion.Glob("__pycache__", exclusion.ScopeDir),
			exclusion.Glob(".pytest_cache", exclusion.ScopeDir),
			exclusion.Glob(".mypy_cache", exclusion.ScopeDir),
			exclusion.Glob(".tox", exclusion.ScopeDir),
			exclusion.Glob("venv", exclusion.ScopeDir),
			exclusion.Glob(".venv", exclusion.ScopeDir),
			exclusion.Glob("*.egg-info", exclusion.ScopeDir),
			exclusion.Glob("build", exclusion.ScopeDir),
			exclusion.Glob("dist", exclusion.ScopeDir),
			exclusion.Glob("*.pyc", exclusion.ScopeFile),
			exclusion.Glob("*.pyo", exclusion.ScopeFile),
			exclusion.Glob(".coverage", exclusion.ScopeFile),
		},
	}
}

func nodeProvider() Provider {
	return Provider{
		Name: "nodejs",
		Patterns: []exclusion.Pattern{
			exclusion.Glob("node_modules", exclusion.ScopeDir),
			exclusion.Glob(".cache", exclusion.ScopeDir),
			exclusion.Glob("coverage", exclusion.ScopeDir),
			exclusion.Glob("package-lock.json", exclusion.ScopeFile),
			exclusion.Glob("yarn.lock", exclusion.ScopeFile),
			exclusion.Glob("pnpm-lock.yaml", exclusion.ScopeFile),
			exclusion.Glob("npm-debug.log*", exclusion.ScopeFile),
			exclusion.Regex(`\.min\.(js|css)$`, exclusion.ScopeFile),
		},
	}
}

func nextJSProvider() Provider {
	return Provider{
		Name: "nextjs",
		Patterns: []exclusion.Pattern{
			exclusion.Glob(".next", exclusion.ScopeDir),
			exclusion.Glob("out", exclusion.ScopeDir),
			exclusion.Glob("next-env.d.ts", exclusion.ScopeFile),
		},
	}
}

func webProvider() Provider {
	return Provider{
		Name: "web",
		Patterns: []exclusion.Pattern{
			exclusion.Glob("dist", exclusion.ScopeDir),
			exclusion.Glob("build", exclusion.ScopeDir),
			exclusion.Glob("out", exclusion.ScopeDir),
			exclusion.Glob(".cache", exclusion.ScopeDir),
			exclusion.Glob(".tmp", exclusion.ScopeDir),
		},
	}
}

func databaseProvider() Provider {
	return Provider{
		Name: "database",
		Patterns: []exclusion.Pattern{
			exclusion.Glob("migrations", exclusion.ScopeDir),
			exclusion.Glob("*.sqlite", exclusion.ScopeFile),
			exclusion.Glob("*.sqlite3", exclusion.ScopeFile),
			exclusion.Glob("*.db", exclusion.ScopeFile),
		},
	}
}
