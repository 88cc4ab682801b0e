package main

import (
	"os"
	"strconv"

	"github.com/imgfs/imgfs/imgfs"
)

const (
	maxThumbRes = 128
	maxSmallRes = 512
)

func doList(args []string) error {
	if len(args) < 1 {
		return imgfs.ErrNotEnoughArguments
	}
	if len(args) > 1 {
		return imgfs.ErrInvalidCommand
	}
	fs, err := imgfs.Open(args[0], false)
	if err != nil {
		return err
	}
	defer fs.Close()
	_, err = fs.List(imgfs.ListStdout)
	return err
}

func doCreate(args []string) error {
	if len(args) < 1 {
		return imgfs.ErrNotEnoughArguments
	}
	filename := args[0]
	opts := imgfs.CreateOptions{MaxFiles: imgfs.DefaultMaxFiles}

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-max_files":
			if i+1 >= len(args) {
				return imgfs.ErrNotEnoughArguments
			}
			n, err := strconv.ParseUint(args[i+1], 10, 32)
			if err != nil || n == 0 {
				return imgfs.ErrMaxFiles
			}
			opts.MaxFiles = uint32(n)
			i++
		case "-thumb_res":
			res, err := parseResPair(args[i+1:], maxThumbRes)
			if err != nil {
				return err
			}
			opts.ThumbRes = res
			i += 2
		case "-small_res":
			res, err := parseResPair(args[i+1:], maxSmallRes)
			if err != nil {
				return err
			}
			opts.SmallRes = res
			i += 2
		default:
			return imgfs.ErrInvalidArgument
		}
	}

	fs, err := imgfs.Create(filename, opts)
	if err != nil {
		return err
	}
	return fs.Close()
}

// parseResPair reads a width and height from args, rejecting zero or
// anything above max.
func parseResPair(args []string, max uint16) ([2]uint16, error) {
	var res [2]uint16
	if len(args) < 2 {
		return res, imgfs.ErrNotEnoughArguments
	}
	for i := 0; i < 2; i++ {
		n, err := strconv.ParseUint(args[i], 10, 16)
		if err != nil || n == 0 || n > uint64(max) {
			return res, imgfs.ErrResolutions
		}
		res[i] = uint16(n)
	}
	return res, nil
}

func doRead(args []string) error {
	if len(args) != 2 && len(args) != 3 {
		return imgfs.ErrNotEnoughArguments
	}
	imgID := args[1]
	res := imgfs.OrigRes
	if len(args) == 3 {
		res = imgfs.ResolutionAtoi(args[2])
		if res == -1 {
			return imgfs.ErrResolutions
		}
	}

	fs, err := imgfs.Open(args[0], true)
	if err != nil {
		return err
	}
	defer fs.Close()

	buf, err := fs.Read(imgID, res)
	if err != nil {
		return err
	}
	return os.WriteFile(outputName(imgID, res), buf, 0666)
}

// outputName is the file the read command saves to, e.g. cat1_thumb.jpg.
func outputName(imgID string, res int) string {
	suffix := ""
	switch res {
	case imgfs.ThumbRes:
		suffix = "_thumb"
	case imgfs.SmallRes:
		suffix = "_small"
	case imgfs.OrigRes:
		suffix = "_orig"
	}
	return imgID + suffix + ".jpg"
}

func doInsert(args []string) error {
	if len(args) != 3 {
		return imgfs.ErrNotEnoughArguments
	}
	imgID := args[1]
	if imgID == "" || len(imgID) > imgfs.MaxImgID {
		return imgfs.ErrInvalidImgID
	}

	buf, err := os.ReadFile(args[2])
	if err != nil {
		return imgfs.ErrIO
	}

	fs, err := imgfs.Open(args[0], true)
	if err != nil {
		return err
	}
	defer fs.Close()
	return fs.Insert(buf, imgID)
}

func doDelete(args []string) error {
	if len(args) < 2 {
		return imgfs.ErrNotEnoughArguments
	}
	imgID := args[1]
	if imgID == "" || len(imgID) > imgfs.MaxImgID {
		return imgfs.ErrInvalidImgID
	}

	fs, err := imgfs.Open(args[0], true)
	if err != nil {
		return err
	}
	defer fs.Close()
	return fs.Delete(imgID)
}
