package annoviz

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// filesByExtInDir returns the sorted paths of all regular files (or symlinks) with suffix ext
// found directly in dirPath. All files are returned if ext is empty.
func filesByExtInDir(dirPath, ext string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %q: %w", dirPath, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		mode := e.Type()
		if !mode.IsRegular() && mode&os.ModeSymlink == 0 {
			continue
		}
		if !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		files = append(files, filepath.Join(dirPath, e.Name()))
	}
	sort.Strings(files)

	return files, nil
}

// splitPath splits the given file path into the dir name, the base name without extension and the
// extension (without the dot).
func splitPath(path string) (dir, baseNoExt, ext string, err error) {
	dir, file := filepath.Split(path)
	ext = filepath.Ext(file)
	if ext == "" {
		return "", "", "", fmt.Errorf("missing file extension in %q", path)
	}

	dir = strings.TrimSuffix(dir, string(os.PathSeparator))
	baseNoExt = file[0 : len(file)-len(ext)]
	ext = ext[1:]

	return dir, baseNoExt, ext, nil
}

// mapFileNamesToPaths maps the base names of the given file paths, with the file type extensions
// stripped off, to the paths.
func mapFileNamesToPaths(filePaths []string) map[string]string {
	mapping := make(map[string]string, len(filePaths))
	for _, path := range filePaths {
		_, baseNoExt, _, err := splitPath(path)
		if err != nil {
			log.Print(err)
			continue
		}
		mapping[baseNoExt] = path
	}

	return mapping
}

// labelParserFn parses a label file given the label and image file paths.
type labelParserFn func(labelPath, imagePath string) (AnnotatedImage, error)

// parseLabelsWithOneToOneImages matches label files in labelDir with suffix labelFileExt (e.g.
// ".txt") by file name to images in imageDir (with an arbitrary file extension), and applies
// parse to every pair. Label files without an image or with parse errors are logged and skipped.
func parseLabelsWithOneToOneImages(labelDir, labelFileExt, imageDir string, parse labelParserFn) (
	[]AnnotatedImage, error) {

	labelFiles, err := filesByExtInDir(labelDir, labelFileExt)
	if err != nil {
		return nil, err
	}
	log.Printf("Parsing labels for %d files", len(labelFiles))

	imageFiles, err := filesByExtInDir(imageDir, "")
	if err != nil {
		return nil, err
	}
	imagePaths := mapFileNamesToPaths(imageFiles)

	data := make([]AnnotatedImage, 0, len(labelFiles))
	for _, labelPath := range labelFiles {
		_, baseNoExt, _, err := splitPath(labelPath)
		if err != nil {
			log.Printf("Error while parsing, skipping %q: %v", labelPath, err)
			continue
		}
		imagePath, found := imagePaths[baseNoExt]
		if !found {
			log.Printf("No corresponding image file, skipping %q", labelPath)
			continue
		}

		fileData, err := parse(labelPath, imagePath)
		if err != nil {
			log.Printf("Error while parsing, skipping %q: %v", labelPath, err)
			continue
		}

		data = append(data, fileData)
	}

	return data, nil
}

// readLines returns the non-blank lines of the file at path.
func readLines(path string) (lines []string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file %q: %w", path, err)
	}
	defer closeWithErrCheck(file, &err)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %q as lines: %w", path, err)
	}

	return lines, nil
}

// closeWithErrCheck calls c.Close(). If it returns an error, and (*e == nil), e is set to that
// error.
func closeWithErrCheck(c io.Closer, e *error) {
	err := c.Close()
	if err != nil && *e == nil {
		*e = err
	}
}
