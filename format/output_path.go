package format

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"stylefmt/config"
	"stylefmt/state"
)

// buildOutputPath returns output file path for stylesheet. "src" is path of
// the source relative to processed directory or archive. Default name is
// source file name with extension of the output mode, user template may
// produce any name including subdirectories. Unless requested otherwise
// source directory structure is kept.
func buildOutputPath(src, dst string, mode config.OutputMode, env *state.LocalEnv) string {
	outDir := determineOutputDir(src, dst, env)
	defaultFile := buildDefaultFileName(src, mode, env)

	if env.Cfg.Format.OutputNameTemplate == "" {
		return filepath.Join(outDir, defaultFile)
	}

	expandedName := expandOutputNameTemplate(src, mode, env)
	if expandedName == "" {
		// fallback to default name if template expansion failed
		return filepath.Join(outDir, defaultFile)
	}
	return assemblePathWithSubdirs(outDir, expandedName, mode, env)
}

func determineOutputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(src))
}

func sourceBase(src string) string {
	return strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
}

func buildDefaultFileName(src string, mode config.OutputMode, env *state.LocalEnv) string {
	return cleanPathSegment(sourceBase(src), env) + mode.Ext()
}

func expandOutputNameTemplate(src string, mode config.OutputMode, env *state.LocalEnv) string {
	dir := filepath.ToSlash(filepath.Dir(src))
	if dir == "." {
		dir = ""
	}
	expandedName, err := expandTemplate(config.OutputNameTemplateFieldName, env.Cfg.Format.OutputNameTemplate, Values{
		SourceFile: sourceBase(src),
		SourceDir:  dir,
		Format:     mode.String(),
		Minified:   env.Cfg.Format.Processing.IsMinified,
	})
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return ""
	}
	return filepath.FromSlash(strings.TrimSpace(expandedName))
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output path,
// cleaning and transliterating segments as needed
func assemblePathWithSubdirs(outDir, expandedName string, mode config.OutputMode, env *state.LocalEnv) string {
	pathSegments := splitPath(expandedName)
	if len(pathSegments) == 0 {
		return filepath.Join(outDir, "_bad_file_name_"+mode.Ext())
	}

	parts := make([]string, 0, len(pathSegments)+1)
	parts = append(parts, outDir)
	for _, segment := range pathSegments[:len(pathSegments)-1] {
		parts = append(parts, cleanPathSegment(segment, env))
	}
	parts = append(parts, cleanPathSegment(pathSegments[len(pathSegments)-1], env)+mode.Ext())
	return filepath.Join(parts...)
}

// splitPath breaks path into segments dropping empty, current and parent
// directory references, so template cannot escape destination.
func splitPath(path string) []string {
	segments := make([]string, 0, 8)
	for _, s := range strings.Split(path, string(os.PathSeparator)) {
		if s == "" || s == "." || s == ".." {
			continue
		}
		segments = append(segments, s)
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Format.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
