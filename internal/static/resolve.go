package static

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// ResolvedFile 记录一次请求选中的文件系统路径及其元信息，仅在单次请求内存活。
type ResolvedFile struct {
	AbsolutePath string
	Stat         fs.FileInfo
}

// resolveFile 按顺序在 roots 下查找 urlPath。三种结果：
// 命中返回 (*ResolvedFile, nil)；所有根都不存在返回 (nil, nil)；
// 出现 ErrNotExist 以外的 stat 错误立即短路返回 (nil, err)。
func resolveFile(roots []string, urlPath string) (*ResolvedFile, error) {
	for _, root := range roots {
		candidate := filepath.Join(root, filepath.FromSlash(urlPath))
		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		return &ResolvedFile{AbsolutePath: candidate, Stat: info}, nil
	}
	return nil, nil
}

// containsDotDot 判断解码后的路径是否含有父目录段。
// 同时把反斜杠视为分隔符，避免 Windows 风格写法绕过检查。
func containsDotDot(p string) bool {
	for _, segment := range splitPathSegments(p) {
		if segment == ".." {
			return true
		}
	}
	return false
}

func splitPathSegments(p string) []string {
	var segments []string
	start := 0
	for i := 0; i <= len(p); i++ {
		if i == len(p) || p[i] == '/' || p[i] == '\\' {
			if i > start {
				segments = append(segments, p[start:i])
			}
			start = i + 1
		}
	}
	return segments
}
