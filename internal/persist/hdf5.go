package persist

import (
	"fmt"

	"gonum.org/v1/hdf5"
)

// dataset is one named float64 array destined for an HDF5 file.
type dataset struct {
	name string
	dims []uint
	data []float64
}

// writeFile creates (or truncates) the HDF5 file at path and writes every
// dataset into it. Errors carry the artifact path so a failed write can be
// retried; computation upstream is never affected.
func writeFile(path string, sets []dataset) error {
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return fmt.Errorf("persist: create %s: %w", path, err)
	}
	defer f.Close()

	for _, s := range sets {
		if err := writeDataset(f, s); err != nil {
			return fmt.Errorf("persist: %s key %q: %w", path, s.name, err)
		}
	}
	return nil
}

func writeDataset(f *hdf5.File, s dataset) error {
	n := uint(1)
	for _, d := range s.dims {
		n *= d
	}
	if uint(len(s.data)) != n {
		return fmt.Errorf("dims %v imply %d elements, have %d", s.dims, n, len(s.data))
	}

	space, err := hdf5.CreateSimpleDataspace(s.dims, nil)
	if err != nil {
		return err
	}
	defer space.Close()

	dset, err := f.CreateDataset(s.name, hdf5.T_NATIVE_DOUBLE, space)
	if err != nil {
		return err
	}
	defer dset.Close()

	return dset.Write(&s.data)
}
