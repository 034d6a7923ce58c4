package repository

import (
	"Teamflow/internal/model"
	"context"
	"testing"
)

func TestCreateFileWithVersionStartsAtOne(t *testing.T) {
	db := newTestDB(t)
	repo := NewFileRepo(db)
	ctx := context.Background()

	file := &model.File{ProjectID: 1, UploaderID: 1, Name: "spec.pdf", Size: 100}
	version := &model.FileVersion{ObjectKey: "projects/1/a", Size: 100, UploaderID: 1}
	if err := repo.CreateFileWithVersion(ctx, file, version); err != nil {
		t.Fatalf("创建文件失败: %v", err)
	}
	if file.CurrentVersion != 1 || version.Version != 1 {
		t.Fatalf("初始版本应为 1: file=%d version=%d", file.CurrentVersion, version.Version)
	}
}

func TestAddVersionAdvancesCurrent(t *testing.T) {
	db := newTestDB(t)
	repo := NewFileRepo(db)
	ctx := context.Background()

	file := &model.File{ProjectID: 1, UploaderID: 1, Name: "spec.pdf", Size: 100}
	if err := repo.CreateFileWithVersion(ctx, file, &model.FileVersion{ObjectKey: "projects/1/a", Size: 100, UploaderID: 1}); err != nil {
		t.Fatalf("创建文件失败: %v", err)
	}

	v2 := &model.FileVersion{ObjectKey: "projects/1/b", Size: 200, UploaderID: 2}
	if err := repo.AddVersion(ctx, file, v2); err != nil {
		t.Fatalf("追加版本失败: %v", err)
	}
	if v2.Version != 2 {
		t.Fatalf("新版本号应为 2，实际 %d", v2.Version)
	}

	got, err := repo.GetFileByID(ctx, file.ID)
	if err != nil {
		t.Fatalf("查询文件失败: %v", err)
	}
	if got.CurrentVersion != 2 {
		t.Fatalf("current_version 应推进到 2，实际 %d", got.CurrentVersion)
	}

	versions, err := repo.GetVersionsByFileID(ctx, file.ID)
	if err != nil {
		t.Fatalf("查询版本失败: %v", err)
	}
	if len(versions) != 2 || versions[0].Version != 2 {
		t.Fatalf("版本链应保留全部版本且倒序: %+v", versions)
	}
}

func TestDeleteFileReturnsVersionsForCleanup(t *testing.T) {
	db := newTestDB(t)
	repo := NewFileRepo(db)
	ctx := context.Background()

	file := &model.File{ProjectID: 1, UploaderID: 1, Name: "spec.pdf", Size: 100}
	if err := repo.CreateFileWithVersion(ctx, file, &model.FileVersion{ObjectKey: "projects/1/a", Size: 100, UploaderID: 1}); err != nil {
		t.Fatalf("创建文件失败: %v", err)
	}
	if err := repo.AddVersion(ctx, file, &model.FileVersion{ObjectKey: "projects/1/b", Size: 200, UploaderID: 1}); err != nil {
		t.Fatalf("追加版本失败: %v", err)
	}

	versions, err := repo.DeleteFile(ctx, file.ID)
	if err != nil {
		t.Fatalf("删除文件失败: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("应返回 2 个待清理版本，实际 %d", len(versions))
	}

	var count int64
	db.Model(&model.FileVersion{}).Where("file_id = ?", file.ID).Count(&count)
	if count != 0 {
		t.Fatalf("版本记录应已删除，残留 %d", count)
	}
}

func TestGetFilesRootVsFolder(t *testing.T) {
	db := newTestDB(t)
	repo := NewFileRepo(db)
	ctx := context.Background()

	folder := &model.Folder{ProjectID: 1, Name: "docs"}
	if err := repo.CreateFolder(ctx, folder); err != nil {
		t.Fatalf("创建文件夹失败: %v", err)
	}

	root := &model.File{ProjectID: 1, UploaderID: 1, Name: "root.txt"}
	inFolder := &model.File{ProjectID: 1, FolderID: ptrUint64(folder.ID), UploaderID: 1, Name: "nested.txt"}
	for _, f := range []*model.File{root, inFolder} {
		if err := repo.CreateFileWithVersion(ctx, f, &model.FileVersion{ObjectKey: "k-" + f.Name, UploaderID: 1}); err != nil {
			t.Fatalf("创建文件失败: %v", err)
		}
	}

	rootFiles, err := repo.GetFiles(ctx, 1, nil)
	if err != nil {
		t.Fatalf("查询根目录失败: %v", err)
	}
	if len(rootFiles) != 1 || rootFiles[0].Name != "root.txt" {
		t.Fatalf("根目录应只含 root.txt: %+v", rootFiles)
	}

	folderFiles, err := repo.GetFiles(ctx, 1, ptrUint64(folder.ID))
	if err != nil {
		t.Fatalf("查询文件夹失败: %v", err)
	}
	if len(folderFiles) != 1 || folderFiles[0].Name != "nested.txt" {
		t.Fatalf("文件夹应只含 nested.txt: %+v", folderFiles)
	}
}
