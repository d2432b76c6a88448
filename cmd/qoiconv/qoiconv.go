package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/feyko/qoi/qoi"
)

const usage = `Usage: qoiconv [-segments N] [-v] <infile> <outfile>
Examples:
	qoiconv input.png output.qoi
	qoiconv -segments 8 input.png output.qoi
	qoiconv input.qoi output.png`

var (
	segments = flag.Int("segments", 0, "number of segments encoded in parallel (0: one per CPU)")
	verbose  = flag.Bool("v", false, "print timings")
)

func main() {
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() != 2 {
		printUsage()
		return
	}

	inputFilename := flag.Arg(0)
	outputFilename := flag.Arg(1)

	inputImg := openImage(inputFilename)

	if !isQOIFilename(outputFilename) {
		writeGenericImage(inputImg, outputFilename)
		return
	}

	writeQOIImage(inputImg, outputFilename)
}

func printUsage() {
	fmt.Println(usage)
	flag.PrintDefaults()
}

func openImage(filename string) image.Image {
	start := time.Now()
	// .qoi files go through image.Decode like the rest, the qoi package registers
	// the format
	inputImg, err := imaging.Open(filename)
	checkForUnsupportedFormat(err)
	if err != nil {
		log.Fatalf("Could not open the input image: %v", err)
	}
	logf("decoded %s in %v", filename, time.Since(start))
	return inputImg
}

func checkForUnsupportedFormat(err error) {
	if errors.Is(err, imaging.ErrUnsupportedFormat) {
		fmt.Println("The only supported formats are png, jpeg, gif, bmp, tiff & qoi")
		os.Exit(1)
	}
}

func isQOIFilename(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".qoi")
}

func writeGenericImage(img image.Image, outputFilename string) {
	err := imaging.Save(img, outputFilename)
	checkForUnsupportedFormat(err)
	if err != nil {
		log.Fatalf("Could not save the output image: %v", err)
	}
}

func writeQOIImage(img image.Image, outputFilename string) {
	start := time.Now()
	outputFile, err := os.Create(outputFilename)
	if err != nil {
		log.Fatalf("Could not open the output file: %v", err)
	}
	enc := qoi.Encoder{Segments: *segments}
	err = enc.EncodeImage(outputFile, img)
	if err != nil {
		outputFile.Close()
		log.Fatalf("Could not encode the image: %v", err)
	}
	err = outputFile.Close()
	if err != nil {
		log.Fatalf("Could not close the output file: %v", err)
	}
	logf("encoded %s in %v", outputFilename, time.Since(start))
}

func logf(format string, args ...interface{}) {
	if *verbose {
		log.Printf(format, args...)
	}
}
