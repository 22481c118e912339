package api

import (
	"context"
	"testing"

	"github.com/muurk/freebox/access"
)

func TestEncodePath(t *testing.T) {
	encoded := EncodePath("/Disque dur/Vidéos")
	decoded, err := DecodePath(encoded)
	if err != nil {
		t.Fatalf("DecodePath() error = %v", err)
	}
	if decoded != "/Disque dur/Vidéos" {
		t.Errorf("DecodePath(EncodePath()) = %s", decoded)
	}
	if _, err := DecodePath("not base64!"); err == nil {
		t.Error("DecodePath() should reject invalid input")
	}
}

func TestFSList(t *testing.T) {
	fc := newFakeCaller()
	path := "fs/ls/L0Rpc3F1ZSBkdXI=?countSubFolder=0&onlyFolder=1&removeHidden=1"
	fc.reply("GET "+path, `[
		{"path": "L0Rpc3F1ZSBkdXIvRmlsbXM=", "name": "Films", "type": "dir", "foldercount": 2},
		{"path": "L0Rpc3F1ZSBkdXIvYS50eHQ=", "name": "a.txt", "type": "file", "size": 12}
	]`)

	files, err := NewFS(fc).List(context.Background(), "/Disque dur", ListOptions{OnlyFolder: true, RemoveHidden: true})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got := fc.last(t).path; got != path {
		t.Errorf("path = %s, want %s", got, path)
	}
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(files))
	}
	if !files[0].IsDir() || files[1].IsDir() {
		t.Error("IsDir() mismatch")
	}
	if p, _ := files[0].DecodedPath(); p != "/Disque dur/Films" {
		t.Errorf("DecodedPath() = %s", p)
	}
}

func TestFSMkdir(t *testing.T) {
	fc := newFakeCaller()
	fc.reply("POST fs/mkdir/", `"L0Rpc3F1ZSBkdXIvTm91dmVhdQ=="`)

	created, err := NewFS(fc).Mkdir(context.Background(), "/Disque dur", "Nouveau")
	if err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}
	if created != "/Disque dur/Nouveau" {
		t.Errorf("Mkdir() = %s", created)
	}
	want := `{"parent":"L0Rpc3F1ZSBkdXI=","dirname":"Nouveau"}`
	if got := bodyJSON(t, fc.last(t).body); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}

func TestFSRemove(t *testing.T) {
	fc := newFakeCaller()
	fc.reply("POST fs/rm/", `{"id": 3, "type": "rm", "state": "queued"}`)

	task, err := NewFS(fc).Remove(context.Background(), "/Disque dur/a.txt")
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if task.ID != 3 || task.State != "queued" {
		t.Errorf("task = %+v", task)
	}
	want := `{"files":["L0Rpc3F1ZSBkdXIvYS50eHQ="]}`
	if got := bodyJSON(t, fc.last(t).body); got != want {
		t.Errorf("body = %s, want %s", got, want)
	}
}

func TestFSDownload(t *testing.T) {
	fc := newFakeCaller()
	fc.responses["GET dl/L0Rpc3F1ZSBkdXIvYS50eHQ="] = &access.Response{
		StatusCode:  200,
		ContentType: "text/plain",
		Raw:         []byte("hello world\n"),
	}

	data, contentType, err := NewFS(fc).Download(context.Background(), "/Disque dur/a.txt")
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if string(data) != "hello world\n" || contentType != "text/plain" {
		t.Errorf("Download() = %q, %s", data, contentType)
	}
}
