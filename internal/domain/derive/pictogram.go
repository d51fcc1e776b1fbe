package derive

import "strings"

// Pictogram names a glyph from the fixed icon set of the presentation layer.
type Pictogram string

// Known pictograms.
const (
	PictogramBox             Pictogram = "box"
	PictogramDatabase        Pictogram = "database"
	PictogramBarChart        Pictogram = "bar-chart"
	PictogramPieChart        Pictogram = "pie-chart"
	PictogramLineChart       Pictogram = "line-chart"
	PictogramTable           Pictogram = "table"
	PictogramFileSpreadsheet Pictogram = "file-spreadsheet"
	PictogramFileText        Pictogram = "file-text"
	PictogramCode            Pictogram = "code"
	PictogramTerminal        Pictogram = "terminal"
	PictogramSettings        Pictogram = "settings"
	PictogramWorkflow        Pictogram = "workflow"
	PictogramGitBranch       Pictogram = "git-branch"
	PictogramCloud           Pictogram = "cloud"
	PictogramServer          Pictogram = "server"
	PictogramLayers          Pictogram = "layers"
	PictogramUsers           Pictogram = "users"
	PictogramMessage         Pictogram = "message"
	PictogramShare           Pictogram = "share"
	PictogramShield          Pictogram = "shield"
	PictogramSearch          Pictogram = "search"
	PictogramZap             Pictogram = "zap"
	PictogramActivity        Pictogram = "activity"
	PictogramWrench          Pictogram = "wrench"
	PictogramPackage         Pictogram = "package"
	PictogramGraduationCap   Pictogram = "graduation-cap"
	PictogramBookOpen        Pictogram = "book-open"
	PictogramTarget          Pictogram = "target"
	PictogramTrendingUp      Pictogram = "trending-up"
)

// DefaultPictogram is shown whenever an icon name does not resolve.
const DefaultPictogram = PictogramBox

// pictograms maps the icon names stored on tool rows to pictograms.
var pictograms = map[string]Pictogram{
	"Box":             PictogramBox,
	"Database":        PictogramDatabase,
	"BarChart":        PictogramBarChart,
	"BarChart3":       PictogramBarChart,
	"PieChart":        PictogramPieChart,
	"LineChart":       PictogramLineChart,
	"Table":           PictogramTable,
	"FileSpreadsheet": PictogramFileSpreadsheet,
	"FileText":        PictogramFileText,
	"Code":            PictogramCode,
	"Code2":           PictogramCode,
	"Terminal":        PictogramTerminal,
	"Settings":        PictogramSettings,
	"Workflow":        PictogramWorkflow,
	"GitBranch":       PictogramGitBranch,
	"Cloud":           PictogramCloud,
	"Server":          PictogramServer,
	"Layers":          PictogramLayers,
	"Users":           PictogramUsers,
	"MessageSquare":   PictogramMessage,
	"Share2":          PictogramShare,
	"Shield":          PictogramShield,
	"Search":          PictogramSearch,
	"Zap":             PictogramZap,
	"Activity":        PictogramActivity,
	"Wrench":          PictogramWrench,
	"Package":         PictogramPackage,
	"GraduationCap":   PictogramGraduationCap,
	"BookOpen":        PictogramBookOpen,
	"Target":          PictogramTarget,
	"TrendingUp":      PictogramTrendingUp,
}

// ResolvePictogram maps an optional icon name to a pictogram. Absent, blank
// or unknown names resolve to DefaultPictogram.
func ResolvePictogram(name *string) Pictogram {
	if name == nil {
		return DefaultPictogram
	}
	if p, ok := pictograms[strings.TrimSpace(*name)]; ok {
		return p
	}
	return DefaultPictogram
}

// deliverable categories and their pictograms.
var categoryPictograms = map[string]Pictogram{
	"Documentation": PictogramFileText,
	"Architecture":  PictogramDatabase,
	"Technique":     PictogramSettings,
	"Plateforme":    PictogramPackage,
	"Formation":     PictogramGraduationCap,
}

// CategoryPictogram returns the pictogram of a deliverable category, falling
// back to the package glyph for labels outside the known set.
func CategoryPictogram(category string) Pictogram {
	if p, ok := categoryPictograms[category]; ok {
		return p
	}
	return PictogramPackage
}
