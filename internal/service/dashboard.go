package service

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"yingcang/pic-api/internal/model"
	"yingcang/pic-api/pkg/util"

	"golang.org/x/sys/unix"
	"gorm.io/gorm"
)

type DashboardCounts struct {
	PicCount      int64 `json:"picCount"`
	TodayPicCount int64 `json:"todayPicCount"`
	MonthPicCount int64 `json:"monthPicCount"`
	AlbumCount    int64 `json:"albumCount"`
}

type StorageInfo struct {
	TotalSize uint64 `json:"totalSize"`
	DiskUsed  uint64 `json:"diskUsed"`
	FreeSize  uint64 `json:"freeSize"`
	UsedSize  int64  `json:"usedSize"`
}

type PieSlice struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type UploadTrend struct {
	Dates        []string `json:"dates"`
	Counts       []int64  `json:"counts"`
	TotalUploads int64    `json:"total_uploads"`
}

type DashboardData struct {
	Dashboard  DashboardCounts `json:"dashboard"`
	Storage    StorageInfo     `json:"storage"`
	ImgPieData []PieSlice      `json:"imgPieData"`
	Trend      UploadTrend     `json:"uploadTrend"`
}

type DashboardService struct {
	DB *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{DB: db}
}

// Data assembles everything the dashboard page renders in one call
func (s *DashboardService) Data() (*DashboardData, error) {
	counts, err := s.counts()
	if err != nil {
		return nil, err
	}

	pie, err := s.suffixPie()
	if err != nil {
		return nil, err
	}

	trend, err := s.uploadTrend()
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		Dashboard:  *counts,
		Storage:    storageInfo(util.ImagesDir()),
		ImgPieData: pie,
		Trend:      *trend,
	}, nil
}

func (s *DashboardService) counts() (*DashboardCounts, error) {
	var out DashboardCounts

	if err := s.DB.Model(&model.Pic{}).Count(&out.PicCount).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	err := s.DB.Model(&model.Pic{}).
		Where("upload_time >= ?", todayStart).
		Count(&out.TodayPicCount).Error
	if err != nil {
		return nil, err
	}

	err = s.DB.Model(&model.Pic{}).
		Where("upload_time >= ?", monthStart).
		Count(&out.MonthPicCount).Error
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(&model.Album{}).Count(&out.AlbumCount).Error; err != nil {
		return nil, err
	}

	return &out, nil
}

// suffixPie groups the library by file extension, busiest first
func (s *DashboardService) suffixPie() ([]PieSlice, error) {
	var rows []struct {
		PicSuffix string
		Count     int64
	}

	err := s.DB.Model(&model.Pic{}).
		Select("pic_suffix, COUNT(pid) AS count").
		Group("pic_suffix").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	pie := make([]PieSlice, 0, len(rows))
	for _, r := range rows {
		pie = append(pie, PieSlice{
			Name:  strings.ToUpper(strings.TrimPrefix(r.PicSuffix, ".")),
			Value: r.Count,
		})
	}

	return pie, nil
}

// uploadTrend buckets the last 30 days of uploads per day, zero-filled
// so the chart always spans the full window. Dates go out as "MM-DD".
func (s *DashboardService) uploadTrend() (*UploadTrend, error) {
	now := time.Now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := end.AddDate(0, 0, -29)

	var stamps []time.Time
	err := s.DB.Model(&model.Pic{}).
		Where("upload_time >= ? AND upload_time < ?", start, end.AddDate(0, 0, 1)).
		Pluck("upload_time", &stamps).Error
	if err != nil {
		return nil, err
	}

	perDay := make(map[string]int64, 30)
	for _, ts := range stamps {
		perDay[ts.Format("2006-01-02")]++
	}

	trend := &UploadTrend{
		Dates:  make([]string, 0, 30),
		Counts: make([]int64, 0, 30),
	}

	for d := 0; d < 30; d++ {
		day := start.AddDate(0, 0, d)
		n := perDay[day.Format("2006-01-02")]

		trend.Dates = append(trend.Dates, day.Format("01-02"))
		trend.Counts = append(trend.Counts, n)
		trend.TotalUploads += n
	}

	return trend, nil
}

// storageInfo pairs filesystem-level usage of the volume holding the
// library with the library's own on-disk size. Any failure degrades
// to zeroes rather than breaking the dashboard.
func storageInfo(dir string) StorageInfo {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return StorageInfo{}
	}

	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)

	return StorageInfo{
		TotalSize: total,
		DiskUsed:  total - stat.Bfree*uint64(stat.Bsize),
		FreeSize:  free,
		UsedSize:  folderSize(dir),
	}
}

func folderSize(dir string) int64 {
	var total int64

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	for _, e := range entries {
		if e.IsDir() {
			total += folderSize(filepath.Join(dir, e.Name()))
			continue
		}

		if info, err := e.Info(); err == nil {
			total += info.Size()
		}
	}

	return total
}
