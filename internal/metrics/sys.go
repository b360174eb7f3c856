package metrics

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// SysHealth is a point-in-time view of the process and its data directory.
type SysHealth struct {
	AllocMB    uint64 `json:"alloc_mb"`
	SysMB      uint64 `json:"sys_mb"`
	NumGC      uint32 `json:"num_gc"`
	Goroutines int    `json:"goroutines"`
	DataBytes  int64  `json:"data_bytes"`
}

// GetSysHealth collects memory stats and the size of everything under dataPath.
// A missing data directory counts as empty.
func GetSysHealth(dataPath string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return SysHealth{
		AllocMB:    m.Alloc / 1024 / 1024,
		SysMB:      m.Sys / 1024 / 1024,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
		DataBytes:  dirSize(dataPath),
	}
}

// DataSize renders DataBytes with a binary unit.
func (h SysHealth) DataSize() string {
	return humanBytes(h.DataBytes)
}

func dirSize(path string) int64 {
	var size int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			size += info.Size()
		}
		return nil
	})
	return size
}

func humanBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// Report renders health and recent usage as a short Markdown block for chat.
func Report(h SysHealth, usage []DailyUsage) string {
	var sb strings.Builder
	sb.WriteString("*System*\n")
	fmt.Fprintf(&sb, "Memory: %d MB (sys %d MB)\n", h.AllocMB, h.SysMB)
	fmt.Fprintf(&sb, "Goroutines: %d, GC runs: %d\n", h.Goroutines, h.NumGC)
	fmt.Fprintf(&sb, "Data: %s\n", h.DataSize())

	sb.WriteString("\n*LLM usage*\n")
	if len(usage) == 0 {
		sb.WriteString("_No executions recorded._\n")
		return sb.String()
	}
	for _, u := range usage {
		fmt.Fprintf(&sb, "%s: %d calls, %d prompt / %d completion tokens\n",
			u.Date, u.TotalExecution, u.TotalPrompt, u.TotalCompletion)
	}
	return sb.String()
}
