package trainer

import "gradsample/internal/dataset"

// Split returns the first trainSize observations as train and the rest as
// test, both in original order. It never shuffles.
func Split(ds dataset.Dataset, trainSize int) (train, test dataset.Dataset, err error) {
	if trainSize < 0 || trainSize > len(ds) {
		return nil, nil, configErrorf("train_size", "%d outside [0, %d]", trainSize, len(ds))
	}
	return ds[:trainSize:trainSize], ds[trainSize:], nil
}
