package scanning

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// makePNG encodes a small solid-color PNG for tests
func makePNG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	Expect(png.Encode(&buf, img)).To(Succeed())
	return buf.Bytes()
}

// makeJPEG encodes a small JPEG for tests
func makeJPEG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	Expect(jpeg.Encode(&buf, img, nil)).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("validateImage", func() {
	When("the data is a well-formed PNG", func() {
		It("should accept it", func() {
			Expect(validateImage(makePNG(10, 10), "image/png")).To(Succeed())
		})
	})

	When("the data is a well-formed JPEG", func() {
		It("should accept it", func() {
			Expect(validateImage(makeJPEG(8, 8), "image/jpeg")).To(Succeed())
		})
	})

	When("the data is not a decodable image", func() {
		It("returns an invalid image error", func() {
			err := validateImage([]byte("definitely not an image"), "image/png")
			Expect(err).To(HaveOccurred())
			var invalid *InvalidImageError
			Expect(errors.As(err, &invalid)).To(BeTrue())
		})
	})

	When("the data is empty", func() {
		It("returns an invalid image error", func() {
			err := validateImage(nil, "image/jpeg")
			Expect(err).To(HaveOccurred())
			var invalid *InvalidImageError
			Expect(errors.As(err, &invalid)).To(BeTrue())
		})
	})

	When("the declared type is HEIC but the bytes are not", func() {
		It("returns an invalid image error", func() {
			err := validateImage([]byte("not heic data, long enough to sniff"), "image/heic")
			Expect(err).To(HaveOccurred())
			var invalid *InvalidImageError
			Expect(errors.As(err, &invalid)).To(BeTrue())
		})
	})
})

var _ = Describe("isHEICFormat", func() {
	It("recognizes an ftyp box with a heic brand", func() {
		data := append([]byte{0, 0, 0, 24}, []byte("ftypheic")...)
		data = append(data, make([]byte, 16)...)
		Expect(isHEICFormat(data)).To(BeTrue())
	})

	It("recognizes the mif1 brand", func() {
		data := append([]byte{0, 0, 0, 24}, []byte("ftypmif1")...)
		data = append(data, make([]byte, 16)...)
		Expect(isHEICFormat(data)).To(BeTrue())
	})

	It("rejects PNG data", func() {
		Expect(isHEICFormat(makePNG(4, 4))).To(BeFalse())
	})

	It("rejects short data", func() {
		Expect(isHEICFormat([]byte("ftyp"))).To(BeFalse())
	})
})

var _ = Describe("isHEICMimeType", func() {
	It("matches image/heic and image/heif", func() {
		Expect(isHEICMimeType("image/heic")).To(BeTrue())
		Expect(isHEICMimeType(" IMAGE/HEIF ")).To(BeTrue())
	})

	It("does not match other image types", func() {
		Expect(isHEICMimeType("image/png")).To(BeFalse())
	})
})

var _ = Describe("imageFormat", func() {
	It("returns the MIME subtype", func() {
		Expect(imageFormat("image/png")).To(Equal("png"))
		Expect(imageFormat("image/webp")).To(Equal("webp"))
		Expect(imageFormat(" Image/JPEG ")).To(Equal("jpeg"))
	})

	It("defaults to jpeg for unrecognized values", func() {
		Expect(imageFormat("")).To(Equal("jpeg"))
		Expect(imageFormat("application/octet-stream")).To(Equal("jpeg"))
	})
})
